package client

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"pagedraft/internal/models"
	"pagedraft/internal/router"
	"pagedraft/internal/seo"
	"pagedraft/internal/session"
)

// Ограничения витринной архивной записи
var (
	ErrVotingRestricted     = errors.New("голосование доступно только для размещённых на платформе постов")
	ErrDiscussionRestricted = errors.New("обсуждение этой архивной записи закрыто")
)

// DetailView - состояние детального вида поста: сама запись, лайки
// и комментарии. Метаданные SEO выставляются после загрузки данных.
type DetailView struct {
	svc     ContentService
	session *session.Store
	seo     *seo.Manager
	nav     router.Navigator

	mu           sync.Mutex
	post         *models.Post
	notFound     bool
	liked        bool
	likeCount    int
	comments     []models.Comment
	commentDraft string
}

func NewDetailView(svc ContentService, store *session.Store, seoManager *seo.Manager, nav router.Navigator) *DetailView {
	return &DetailView{
		svc:     svc,
		session: store,
		seo:     seoManager,
		nav:     nav,
	}
}

// Load загружает пост по slug (с фолбэком на витринную запись) и
// инициализирует лайки и комментарии. Частичный отказ инициализации
// пост не роняет.
func (v *DetailView) Load(ctx context.Context, slug string) error {
	post, err := v.svc.GetPost(ctx, slug)
	if err != nil {
		staticPost, ok := StaticPost(slug)
		if !ok {
			v.mu.Lock()
			v.notFound = true
			v.post = nil
			v.mu.Unlock()
			return fmt.Errorf("пост не найден")
		}
		post = staticPost
	}

	v.mu.Lock()
	v.post = post
	v.notFound = false
	v.mu.Unlock()

	v.seo.Apply(seo.Meta{Title: post.Title, Description: post.Excerpt})

	v.initEngagement(ctx, post)

	return nil
}

func (v *DetailView) initEngagement(ctx context.Context, post *models.Post) {
	if post.PostID == StaticPostID {
		return
	}

	liked, count, err := v.svc.LikeState(ctx, post.PostID)
	if err != nil {
		log.Printf("не удалось получить состояние лайков: %v", err)
	}

	comments, cErr := v.svc.GetComments(ctx, post.PostID, 1)
	if cErr != nil {
		log.Printf("не удалось получить комментарии: %v", cErr)
	}

	v.mu.Lock()
	v.liked = liked
	v.likeCount = count
	v.comments = comments
	v.mu.Unlock()
}

// ToggleLike переключает лайк. Без сессии - редирект на вход, запись
// не создаётся. Счётчик обновляется оптимистично по сообщённому исходу.
func (v *DetailView) ToggleLike(ctx context.Context) error {
	if !v.session.Valid() {
		v.nav.Navigate(router.FragmentLogin)
		return nil
	}

	v.mu.Lock()
	post := v.post
	v.mu.Unlock()

	if post == nil || post.PostID == StaticPostID {
		return ErrVotingRestricted
	}

	liked, _, err := v.svc.ToggleLike(ctx, post.PostID)
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.liked = liked
	if liked {
		v.likeCount++
	} else {
		v.likeCount--
	}
	v.mu.Unlock()

	return nil
}

func (v *DetailView) SetCommentDraft(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.commentDraft = text
}

// SubmitComment отправляет черновик комментария. Успех очищает поле ввода
// и перечитывает первую страницу комментариев (замена, не дозапись).
// При ошибке текст сохраняется, чтобы пользователь мог повторить.
func (v *DetailView) SubmitComment(ctx context.Context) error {
	v.mu.Lock()
	draft := strings.TrimSpace(v.commentDraft)
	post := v.post
	v.mu.Unlock()

	if draft == "" || post == nil {
		return nil
	}

	if post.PostID == StaticPostID {
		return ErrDiscussionRestricted
	}

	_, err := v.svc.CreateComment(ctx, post.PostID, draft)
	if err != nil {
		return fmt.Errorf("не удалось отправить комментарий: %w", err)
	}

	comments, err := v.svc.GetComments(ctx, post.PostID, 1)
	if err != nil {
		log.Printf("не удалось перечитать комментарии: %v", err)
	}

	v.mu.Lock()
	v.commentDraft = ""
	if err == nil {
		v.comments = comments
	}
	v.mu.Unlock()

	return nil
}

func (v *DetailView) Post() *models.Post {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.post
}

func (v *DetailView) NotFound() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.notFound
}

func (v *DetailView) Liked() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.liked
}

func (v *DetailView) LikeCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.likeCount
}

func (v *DetailView) Comments() []models.Comment {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.comments
}

func (v *DetailView) CommentDraft() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.commentDraft
}
