package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"pagedraft/internal/client"
	"pagedraft/internal/router"
	"pagedraft/internal/seo"
)

// Prerender отдаёт готовый набор head-тегов для фрагмента SPA - мост для
// краулеров, которые не исполняют клиент. Для детального вида метаданные
// заполняются данными поста, для остальных видов - значениями по умолчанию.
func (h *Handlers) Prerender(w http.ResponseWriter, r *http.Request) {
	fragment := r.URL.Query().Get("fragment")

	doc := seo.NewHeadDocument()
	manager := seo.NewManager(doc, h.Cfg.BaseURL)
	manager.Reset()

	route := router.Resolve(fragment)
	if route.View == router.ViewPostDetail {
		post, err := h.PostService.GetPost(r.Context(), route.Param)
		if err != nil {
			if staticPost, ok := client.StaticPost(route.Param); ok {
				post = staticPost
			} else {
				post = nil
			}
		}

		if post != nil {
			manager.Apply(seo.Meta{
				Title:       post.Title,
				Description: post.Excerpt,
				URL:         h.Cfg.BaseURL + "/" + fragment,
			})
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(doc.Render()))
}

// FileRedirect разрешает ссылку на файл записи в URL хранилища.
func (h *Handlers) FileRedirect(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	fileURL := h.Storage.FileURL(vars["collection"], vars["record"], vars["file"])
	if fileURL == "" {
		WriteError(w, "Файл не найден", http.StatusNotFound)
		return
	}

	http.Redirect(w, r, fileURL, http.StatusFound)
}
