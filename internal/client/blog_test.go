package client

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagedraft/internal/models"
)

const testDebounce = 30 * time.Millisecond

func waitForIdle(t *testing.T, view *BlogView) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for view.Loading() {
		if time.Now().After(deadline) {
			t.Fatal("выборка не завершилась")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestBlogView_DebounceCoalesces(t *testing.T) {
	svc := &fakeContentService{}
	view := NewBlogView(svc, testDebounce, 10)

	// Серия быстрых правок строки поиска
	view.SetSearch("g")
	view.SetSearch("go")
	view.SetSearch("gol")
	view.SetSearch("gola")
	view.SetSearch("golang")

	waitForIdle(t, view)

	calls := svc.listCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "golang", calls[0].Search)
	assert.Equal(t, 10, calls[0].PerPage)
}

func TestBlogView_RefreshSkipsDebounce(t *testing.T) {
	svc := &fakeContentService{}
	view := NewBlogView(svc, time.Hour, 10)

	view.Refresh()
	waitForIdle(t, view)

	assert.Len(t, svc.listCalls(), 1)
}

func TestBlogView_SearchAndTagCombine(t *testing.T) {
	svc := &fakeContentService{}
	view := NewBlogView(svc, testDebounce, 10)

	view.SetSearch("go")
	view.SetTag("web")

	waitForIdle(t, view)

	calls := svc.listCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "go", calls[0].Search)
	assert.Equal(t, "web", calls[0].Tag)
}

func TestBlogView_ErrorYieldsEmptyList(t *testing.T) {
	svc := &fakeContentService{
		listPostsFn: func(int, int, string, string) (*PostList, error) {
			return nil, errors.New("сервис недоступен")
		},
	}
	view := NewBlogView(svc, testDebounce, 10)

	view.Refresh()
	waitForIdle(t, view)

	// Ошибка гасится в пустую выдачу, вид остаётся работоспособным
	assert.Empty(t, view.Posts())
}

func TestBlogView_TagFacets(t *testing.T) {
	posts := []models.Post{
		{PostID: "p1", Tags: []string{"go", "web"}},
		{PostID: "p2", Tags: []string{"go", "infra"}},
	}

	svc := &fakeContentService{
		listPostsFn: func(_, _ int, search, tag string) (*PostList, error) {
			if search != "" || tag != "" {
				return &PostList{Items: posts[:1]}, nil
			}
			return &PostList{Items: posts}, nil
		},
	}
	view := NewBlogView(svc, testDebounce, 10)

	view.Refresh()
	waitForIdle(t, view)

	// Фасеты - объединение тегов, отсортированное по алфавиту
	assert.Equal(t, []string{"go", "infra", "web"}, view.TagFacets())

	// Фильтрованная выборка не сужает список фасетов
	view.SetSearch("go")
	waitForIdle(t, view)
	assert.Equal(t, []string{"go", "infra", "web"}, view.TagFacets())
}
