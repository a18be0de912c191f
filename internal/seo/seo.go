package seo

import (
	"fmt"
	"html"
	"strings"
	"sync"
)

// Значения по умолчанию для метаданных платформы
const (
	PlatformName    = "PageDraft"
	DefaultTitle    = "PageDraft | Professional Content Management & Minimalist Blogging Platform"
	DefaultDesc     = "PageDraft is a high-performance, minimalist content drafting platform designed for visionary creators."
	DefaultKeywords = "PageDraft, minimalist blogging, content drafting, professional writing platform"
	DefaultImage    = "https://pagedraft.pages.dev/og-image.jpg"
)

// Meta - конфигурация метаданных страницы. Пустое поле означает значение по умолчанию.
type Meta struct {
	Title       string
	Description string
	Keywords    string
	Image       string
	URL         string
}

// Document - поверхность, в которую менеджер пишет метаданные.
type Document interface {
	SetTitle(title string)
	UpsertMeta(attr, key, content string)
}

// Manager поддерживает метаданные документа в соответствии с активным видом.
type Manager struct {
	doc        Document
	defaultURL string
}

func NewManager(doc Document, defaultURL string) *Manager {
	return &Manager{doc: doc, defaultURL: defaultURL}
}

// Apply обновляет фиксированный набор тегов. Apply(Meta{}) сбрасывает всё
// к значениям по умолчанию. Повторные вызовы обновляют теги на месте.
func (m *Manager) Apply(meta Meta) {
	fullTitle := DefaultTitle
	if meta.Title != "" {
		fullTitle = meta.Title + " | " + PlatformName
	}

	metaDesc := meta.Description
	if metaDesc == "" {
		metaDesc = DefaultDesc
	}

	metaKeywords := meta.Keywords
	if metaKeywords == "" {
		metaKeywords = DefaultKeywords
	}

	metaImage := meta.Image
	if metaImage == "" {
		metaImage = DefaultImage
	}

	metaURL := meta.URL
	if metaURL == "" {
		metaURL = m.defaultURL
	}

	m.doc.SetTitle(fullTitle)

	// Standard
	m.doc.UpsertMeta("name", "description", metaDesc)
	m.doc.UpsertMeta("name", "keywords", metaKeywords)
	m.doc.UpsertMeta("name", "title", fullTitle)

	// Open Graph
	m.doc.UpsertMeta("property", "og:title", fullTitle)
	m.doc.UpsertMeta("property", "og:description", metaDesc)
	m.doc.UpsertMeta("property", "og:image", metaImage)
	m.doc.UpsertMeta("property", "og:url", metaURL)

	// Twitter
	m.doc.UpsertMeta("property", "twitter:title", fullTitle)
	m.doc.UpsertMeta("property", "twitter:description", metaDesc)
	m.doc.UpsertMeta("property", "twitter:image", metaImage)
}

// Reset - сброс к значениям по умолчанию.
func (m *Manager) Reset() {
	m.Apply(Meta{})
}

type tagKey struct {
	attr string
	key  string
}

// HeadDocument - документ в памяти. Теги создаются один раз и обновляются
// на месте, порядок первого появления сохраняется при рендере.
type HeadDocument struct {
	mu    sync.Mutex
	title string
	order []tagKey
	tags  map[tagKey]string
}

func NewHeadDocument() *HeadDocument {
	return &HeadDocument{
		tags: make(map[tagKey]string),
	}
}

func (d *HeadDocument) SetTitle(title string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.title = title
}

func (d *HeadDocument) UpsertMeta(attr, key, content string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	k := tagKey{attr: attr, key: key}
	if _, exists := d.tags[k]; !exists {
		d.order = append(d.order, k)
	}
	d.tags[k] = content
}

func (d *HeadDocument) Title() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.title
}

func (d *HeadDocument) Meta(attr, key string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tags[tagKey{attr: attr, key: key}]
}

// TagCount возвращает число тегов с данным ключом (после upsert всегда 0 или 1).
func (d *HeadDocument) TagCount(attr, key string) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	count := 0
	for _, k := range d.order {
		if k.attr == attr && k.key == key {
			count++
		}
	}
	return count
}

// Render отдаёт содержимое head в виде HTML.
func (d *HeadDocument) Render() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(d.title))
	for _, k := range d.order {
		fmt.Fprintf(&b, "<meta %s=\"%s\" content=\"%s\">\n",
			k.attr, html.EscapeString(k.key), html.EscapeString(d.tags[k]))
	}
	return b.String()
}
