package client

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"pagedraft/internal/models"
)

// BlogView - состояние списочного вида: строка поиска, выбранный тег,
// загруженные посты и производный список тегов-фасетов.
// Изменения фильтров коалесцируются дебаунсом; из гонки запросов
// побеждает последний запущенный, устаревшие результаты отбрасываются.
type BlogView struct {
	svc      ContentService
	debounce time.Duration
	perPage  int

	mu      sync.Mutex
	search  string
	tag     string
	posts   []models.Post
	allTags []string
	loading bool
	timer   *time.Timer
	seq     uint64
}

func NewBlogView(svc ContentService, debounce time.Duration, perPage int) *BlogView {
	return &BlogView{
		svc:      svc,
		debounce: debounce,
		perPage:  perPage,
	}
}

func (v *BlogView) SetSearch(search string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.search = search
	v.scheduleLocked()
}

func (v *BlogView) SetTag(tag string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tag = tag
	v.scheduleLocked()
}

// Refresh запускает выборку немедленно, минуя дебаунс (первичная загрузка).
func (v *BlogView) Refresh() {
	v.mu.Lock()
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
	v.loading = true
	seq := v.nextSeqLocked()
	search, tag := v.search, v.tag
	v.mu.Unlock()

	v.fetch(seq, search, tag)
}

// scheduleLocked перезаводит таймер дебаунса; серия правок фильтров
// даёт ровно одну выборку с последними значениями.
func (v *BlogView) scheduleLocked() {
	v.loading = true

	if v.timer != nil {
		v.timer.Stop()
	}

	v.timer = time.AfterFunc(v.debounce, func() {
		v.mu.Lock()
		seq := v.nextSeqLocked()
		search, tag := v.search, v.tag
		v.mu.Unlock()

		v.fetch(seq, search, tag)
	})
}

func (v *BlogView) nextSeqLocked() uint64 {
	v.seq++
	return v.seq
}

// fetch выполняет запрос и применяет результат, только если за время
// полёта не стартовала более свежая выборка.
func (v *BlogView) fetch(seq uint64, search, tag string) {
	list, err := v.svc.ListPosts(context.Background(), 1, v.perPage, search, tag)
	if err != nil {
		// Ошибка листинга гасится в пустую выдачу
		log.Printf("ошибка загрузки постов: %v", err)
		list = &PostList{}
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if seq != v.seq {
		return
	}

	v.posts = list.Items
	v.loading = false

	// Фасеты пересчитываются только без активных фильтров,
	// иначе список тегов схлопнулся бы до отфильтрованного подмножества
	if search == "" && tag == "" {
		set := map[string]struct{}{}
		for _, post := range list.Items {
			for _, t := range post.Tags {
				set[t] = struct{}{}
			}
		}
		if len(set) > 0 {
			tags := make([]string, 0, len(set))
			for t := range set {
				tags = append(tags, t)
			}
			sort.Strings(tags)
			v.allTags = tags
		}
	}
}

func (v *BlogView) Posts() []models.Post {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.posts
}

func (v *BlogView) TagFacets() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.allTags
}

func (v *BlogView) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}
