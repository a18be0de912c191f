package router

import (
	"fmt"
	"strings"
	"sync"

	"pagedraft/internal/seo"
	"pagedraft/internal/session"
)

type View string

const (
	ViewHome       View = "home"
	ViewBlog       View = "blog"
	ViewLogin      View = "login"
	ViewRegister   View = "register"
	ViewProfile    View = "profile"
	ViewCreatePost View = "create-post"
	ViewSettings   View = "settings"
	ViewPrivacy    View = "privacy"
	ViewTerms      View = "terms"
	ViewEditPost   View = "edit-post"
	ViewPostDetail View = "post-detail"
)

// Route - результат разбора фрагмента: вид и необязательный параметр пути
// (id для edit-post, slug для post-detail).
type Route struct {
	View  View
	Param string
}

// Фрагменты маршрутов
const (
	FragmentHome     = "#/"
	FragmentBlog     = "#/blog"
	FragmentLogin    = "#/login"
	FragmentRegister = "#/register"
	FragmentProfile  = "#/profile"
)

var staticRoutes = map[string]View{
	"":               ViewHome,
	FragmentHome:     ViewHome,
	FragmentBlog:     ViewBlog,
	FragmentLogin:    ViewLogin,
	FragmentRegister: ViewRegister,
	FragmentProfile:  ViewProfile,
	"#/create-post":  ViewCreatePost,
	"#/settings":     ViewSettings,
	"#/privacy":      ViewPrivacy,
	"#/terms":        ViewTerms,
}

// Маршруты, требующие действующей сессии (сравнение по префиксу).
var protectedPrefixes = []string{
	FragmentProfile,
	"#/create-post",
	"#/settings",
	"#/edit-post/",
}

// Resolve - чистая функция разбора фрагмента. Query-часть после "?"
// отбрасывается до сопоставления; нераспознанный фрагмент даёт home.
func Resolve(fragment string) Route {
	path := strings.SplitN(fragment, "?", 2)[0]

	if view, ok := staticRoutes[path]; ok {
		return Route{View: view}
	}

	if strings.HasPrefix(path, "#/edit-post/") {
		return Route{View: ViewEditPost, Param: strings.TrimPrefix(path, "#/edit-post/")}
	}

	if strings.HasPrefix(path, "#/blog/") {
		slug := strings.TrimPrefix(path, "#/blog/")
		if slug != "" {
			return Route{View: ViewPostDetail, Param: slug}
		}
	}

	return Route{View: ViewHome}
}

// Decision - результат пропуска маршрута через гейт авторизации.
// Redirect непустой, когда вместо запрошенного вида рендерится другой
// и адрес должен быть переписан.
type Decision struct {
	Route    Route
	Redirect string
}

// Decide - чистая функция: путь плюс состояние сессии дают итоговый вид.
// Правило A: защищённые маршруты без сессии уводят на login.
// Правило B: login/register при живой сессии уводят на profile.
// Решение не кэшируется, гейт оценивается на каждом проходе.
func Decide(fragment string, authValid bool) Decision {
	path := strings.SplitN(fragment, "?", 2)[0]

	if !authValid {
		for _, prefix := range protectedPrefixes {
			if strings.HasPrefix(path, prefix) {
				return Decision{Route: Route{View: ViewLogin}, Redirect: FragmentLogin}
			}
		}
	}

	if authValid && (path == FragmentLogin || path == FragmentRegister) {
		return Decision{Route: Route{View: ViewProfile}, Redirect: FragmentProfile}
	}

	return Decision{Route: Resolve(path)}
}

// Navigator - эффект навигации, отделённый от чистого решения.
type Navigator interface {
	Navigate(fragment string)
	ScrollTop()
}

// Router связывает разбор фрагмента, гейт и побочные эффекты
// (скролл, сброс SEO, переписывание адреса при редиректе).
type Router struct {
	nav     Navigator
	session *session.Store
	seo     *seo.Manager

	mu       sync.Mutex
	mounted  bool
	unsub    func()
	fragment string
	current  Route
}

func New(nav Navigator, store *session.Store, seoManager *seo.Manager) *Router {
	return &Router{
		nav:     nav,
		session: store,
		seo:     seoManager,
	}
}

// Mount подписывается на смену сессии ровно один раз.
// Повторный Mount без Unmount - ошибка, дублирующих слушателей не бывает.
func (r *Router) Mount() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.mounted {
		return fmt.Errorf("роутер уже смонтирован")
	}

	r.mounted = true
	r.unsub = r.session.OnChange(func(session.Session) {
		// Смена сессии - повторный проход гейта по текущему фрагменту
		r.HandleFragment(r.Fragment())
	})

	return nil
}

func (r *Router) Unmount() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.mounted {
		return
	}

	r.mounted = false
	r.unsub()
	r.unsub = nil
}

// HandleFragment обрабатывает смену фрагмента: скролл наверх, сброс SEO
// для всех видов кроме детального (тот выставит свои метаданные после
// загрузки данных), затем гейт и, при необходимости, редирект.
func (r *Router) HandleFragment(fragment string) Route {
	if fragment == "" {
		fragment = FragmentHome
	}

	r.nav.ScrollTop()

	if !strings.HasPrefix(fragment, "#/blog/") {
		r.seo.Reset()
	}

	decision := Decide(fragment, r.session.Valid())
	if decision.Redirect != "" {
		r.nav.Navigate(decision.Redirect)
		fragment = decision.Redirect
	}

	r.mu.Lock()
	r.fragment = fragment
	r.current = decision.Route
	r.mu.Unlock()

	return decision.Route
}

func (r *Router) Fragment() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fragment
}

func (r *Router) Current() Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}
