package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pagedraft/internal/models"
	"pagedraft/internal/router"
	"pagedraft/internal/session"
)

type EditorState int

const (
	StateEditing EditorState = iota
	StatePreviewing
	StateSubmitting
)

// Пустое содержимое, которое редактор оставляет вместо текста
const emptyContentSentinel = "<p><br></p>"

// Editor - машина состояний формы поста:
// Editing -> Previewing -> Submitting -> (успех: уход на профиль | отказ: Editing с ошибкой).
type Editor struct {
	svc     ContentService
	session *session.Store
	nav     router.Navigator

	slugMaxLength    int
	slugSuffixLength int

	mu          sync.Mutex
	state       EditorState
	editID      string
	title       string
	excerpt     string
	content     string
	tagsRaw     string
	status      string
	scheduledAt *time.Time
	image       *FileUpload
	lastError   string
}

func NewEditor(svc ContentService, store *session.Store, nav router.Navigator, slugMaxLength, slugSuffixLength int) *Editor {
	return &Editor{
		svc:              svc,
		session:          store,
		nav:              nav,
		slugMaxLength:    slugMaxLength,
		slugSuffixLength: slugSuffixLength,
		status:           models.StatusDraft,
	}
}

// LoadForEdit заполняет форму данными существующего поста.
func (e *Editor) LoadForEdit(ctx context.Context, postID string) error {
	post, err := e.svc.GetPost(ctx, postID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.editID = post.PostID
	e.title = post.Title
	e.excerpt = post.Excerpt
	e.content = post.Content
	e.status = post.Status
	e.scheduledAt = post.PublishedAt

	tags := ""
	for i, tag := range post.Tags {
		if i > 0 {
			tags += ", "
		}
		tags += tag
	}
	e.tagsRaw = tags

	return nil
}

func (e *Editor) SetTitle(title string)     { e.set(func() { e.title = title }) }
func (e *Editor) SetExcerpt(excerpt string) { e.set(func() { e.excerpt = excerpt }) }
func (e *Editor) SetContent(content string) { e.set(func() { e.content = content }) }
func (e *Editor) SetTags(raw string)        { e.set(func() { e.tagsRaw = raw }) }
func (e *Editor) SetStatus(status string)   { e.set(func() { e.status = status }) }
func (e *Editor) SetImage(f *FileUpload)    { e.set(func() { e.image = f }) }

func (e *Editor) SetScheduledAt(t *time.Time) { e.set(func() { e.scheduledAt = t }) }

func (e *Editor) set(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn()
}

// TogglePreview переключает Editing <-> Previewing; во время отправки игнорируется.
func (e *Editor) TogglePreview() {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case StateEditing:
		e.state = StatePreviewing
	case StatePreviewing:
		e.state = StateEditing
	}
}

func (e *Editor) State() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Editor) LastError() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastError
}

// validateLocked - проверки до какого-либо сетевого вызова.
func (e *Editor) validateLocked() error {
	contentEmpty := e.content == "" || e.content == emptyContentSentinel

	if e.title == "" || e.excerpt == "" || contentEmpty {
		return fmt.Errorf("заполните все обязательные поля")
	}

	if e.status == models.StatusScheduled && e.scheduledAt == nil {
		return fmt.Errorf("для отложенной публикации укажите время выхода")
	}

	return nil
}

// Submit отправляет форму. Slug генерируется только при создании (никогда
// на правке); немедленная публикация при создании штампуется текущим
// временем, правка опубликованного поста время не пересчитывает.
func (e *Editor) Submit(ctx context.Context) error {
	e.mu.Lock()

	if e.state == StateSubmitting {
		e.mu.Unlock()
		return nil
	}

	if err := e.validateLocked(); err != nil {
		e.lastError = err.Error()
		e.mu.Unlock()
		return err
	}

	e.state = StateSubmitting
	e.lastError = ""

	form := PostForm{
		Title:   e.title,
		Content: e.content,
		Excerpt: e.excerpt,
		Status:  e.status,
		Tags:    ParseTags(e.tagsRaw),
		Image:   e.image,
	}

	if e.status == models.StatusScheduled {
		form.PublishedAt = e.scheduledAt
	} else if e.status == models.StatusPublished && e.editID == "" {
		now := time.Now()
		form.PublishedAt = &now
	}

	if e.editID == "" {
		form.Slug = GenerateSlug(e.title, e.slugMaxLength, e.slugSuffixLength)
	}

	editID := e.editID
	e.mu.Unlock()

	var err error
	if editID != "" {
		_, err = e.svc.UpdatePost(ctx, editID, form)
	} else {
		_, err = e.svc.CreatePost(ctx, form)
	}

	e.mu.Lock()
	e.state = StateEditing
	if err != nil {
		e.lastError = err.Error()
	}
	e.mu.Unlock()

	if err != nil {
		return err
	}

	e.nav.Navigate(router.FragmentProfile)
	return nil
}
