package client

import (
	"context"
	"errors"
	"sync"

	"pagedraft/internal/models"
)

var errNotFound = errors.New("пост не найден")

// fakeContentService - настраиваемая заглушка контент-сервиса.
// Поведение задаётся функциями-полями, вызовы считаются под мьютексом.
type fakeContentService struct {
	mu sync.Mutex

	listPostsCalls []listPostsCall
	listPostsFn    func(page, perPage int, search, tag string) (*PostList, error)

	getPostFn func(idOrSlug string) (*models.Post, error)

	createPostCalls []PostForm
	createPostFn    func(form PostForm) (*models.Post, error)

	updatePostCalls []updatePostCall
	updatePostFn    func(postID string, form PostForm) (*models.Post, error)

	toggleLikeCalls int
	toggleLikeFn    func(postID string) (bool, int, error)

	likeStateFn func(postID string) (bool, int, error)

	createCommentCalls []string
	createCommentFn    func(postID, content string) (*models.Comment, error)

	getCommentsFn func(postID string, page int) ([]models.Comment, error)
}

type listPostsCall struct {
	Page    int
	PerPage int
	Search  string
	Tag     string
}

type updatePostCall struct {
	PostID string
	Form   PostForm
}

func (f *fakeContentService) ListPosts(_ context.Context, page, perPage int, search, tag string) (*PostList, error) {
	f.mu.Lock()
	f.listPostsCalls = append(f.listPostsCalls, listPostsCall{page, perPage, search, tag})
	fn := f.listPostsFn
	f.mu.Unlock()

	if fn != nil {
		return fn(page, perPage, search, tag)
	}
	return &PostList{}, nil
}

func (f *fakeContentService) ListByAuthor(_ context.Context, _ string, _, _ int) (*PostList, error) {
	return &PostList{}, nil
}

func (f *fakeContentService) GetPost(_ context.Context, idOrSlug string) (*models.Post, error) {
	if f.getPostFn != nil {
		return f.getPostFn(idOrSlug)
	}
	return nil, errNotFound
}

func (f *fakeContentService) CreatePost(_ context.Context, form PostForm) (*models.Post, error) {
	f.mu.Lock()
	f.createPostCalls = append(f.createPostCalls, form)
	fn := f.createPostFn
	f.mu.Unlock()

	if fn != nil {
		return fn(form)
	}
	return &models.Post{PostID: "post-new"}, nil
}

func (f *fakeContentService) UpdatePost(_ context.Context, postID string, form PostForm) (*models.Post, error) {
	f.mu.Lock()
	f.updatePostCalls = append(f.updatePostCalls, updatePostCall{postID, form})
	fn := f.updatePostFn
	f.mu.Unlock()

	if fn != nil {
		return fn(postID, form)
	}
	return &models.Post{PostID: postID}, nil
}

func (f *fakeContentService) DeletePost(_ context.Context, _ string) error {
	return nil
}

func (f *fakeContentService) ToggleLike(_ context.Context, postID string) (bool, int, error) {
	f.mu.Lock()
	f.toggleLikeCalls++
	fn := f.toggleLikeFn
	f.mu.Unlock()

	if fn != nil {
		return fn(postID)
	}
	return true, 1, nil
}

func (f *fakeContentService) LikeState(_ context.Context, postID string) (bool, int, error) {
	if f.likeStateFn != nil {
		return f.likeStateFn(postID)
	}
	return false, 0, nil
}

func (f *fakeContentService) GetComments(_ context.Context, postID string, page int) ([]models.Comment, error) {
	if f.getCommentsFn != nil {
		return f.getCommentsFn(postID, page)
	}
	return nil, nil
}

func (f *fakeContentService) CreateComment(_ context.Context, postID, content string) (*models.Comment, error) {
	f.mu.Lock()
	f.createCommentCalls = append(f.createCommentCalls, content)
	fn := f.createCommentFn
	f.mu.Unlock()

	if fn != nil {
		return fn(postID, content)
	}
	return &models.Comment{CommentID: "c-new", PostID: postID, Content: content}, nil
}

func (f *fakeContentService) GetActivities(_ context.Context) ([]models.Activity, error) {
	return nil, nil
}

func (f *fakeContentService) Login(_ context.Context, _, _ string) error          { return nil }
func (f *fakeContentService) Register(_ context.Context, _, _, _ string) error   { return nil }
func (f *fakeContentService) RequestPasswordReset(_ context.Context, _ string) error {
	return nil
}
func (f *fakeContentService) LoginWithOAuth(_ context.Context, _ string) error { return nil }
func (f *fakeContentService) UpdateProfile(_ context.Context, _ string, _ *FileUpload) error {
	return nil
}
func (f *fakeContentService) Logout() {}

func (f *fakeContentService) FileURL(collection, recordID, fileName string) string {
	return "http://localhost:8080/api/files/" + collection + "/" + recordID + "/" + fileName
}

func (f *fakeContentService) listCalls() []listPostsCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	calls := make([]listPostsCall, len(f.listPostsCalls))
	copy(calls, f.listPostsCalls)
	return calls
}

// fakeNavigator записывает навигации для проверок.
type fakeNavigator struct {
	mu          sync.Mutex
	navigations []string
}

func (n *fakeNavigator) Navigate(fragment string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.navigations = append(n.navigations, fragment)
}

func (n *fakeNavigator) ScrollTop() {}

func (n *fakeNavigator) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.navigations) == 0 {
		return ""
	}
	return n.navigations[len(n.navigations)-1]
}
