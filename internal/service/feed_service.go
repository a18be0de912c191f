package service

import (
	"context"

	"pagedraft/internal/config"
	"pagedraft/internal/models"
	"pagedraft/internal/repository"
	"pagedraft/internal/storage"
)

type FeedService interface {
	ListPosts(ctx context.Context, req ListPostsRequest) (*PostPage, error)
	ListByAuthor(ctx context.Context, authorID string, page, perPage int) (*PostPage, error)
}

type ListPostsRequest struct {
	Search  string
	Tag     string
	Page    int
	PerPage int
}

type PostPage struct {
	Posts      []models.Post `json:"posts"`
	Page       int           `json:"page"`
	PerPage    int           `json:"perPage"`
	Total      int           `json:"total"`
	TotalPages int           `json:"totalPages"`
}

type feedService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	likeRepo repository.LikeRepository
	storage  storage.Storage
	cfg      *config.Config
}

func NewFeedService(postRepo repository.PostRepository, userRepo repository.UserRepository, likeRepo repository.LikeRepository, storage storage.Storage, cfg *config.Config) FeedService {
	return &feedService{
		postRepo: postRepo,
		userRepo: userRepo,
		likeRepo: likeRepo,
		storage:  storage,
		cfg:      cfg,
	}
}

// ListPosts отдаёт страницу видимых постов (published либо scheduled с
// наступившим сроком) с данными авторов.
func (s *feedService) ListPosts(ctx context.Context, req ListPostsRequest) (*PostPage, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	perPage := req.PerPage
	if perPage < 1 {
		perPage = s.cfg.Client.PostsPerPage
	}

	posts, total, err := s.postRepo.List(ctx, repository.PostFilter{
		Visible: true,
		Search:  req.Search,
		Tag:     req.Tag,
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		return nil, err
	}

	s.expand(ctx, posts)

	return &PostPage{
		Posts:      posts,
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: (total + perPage - 1) / perPage,
	}, nil
}

func (s *feedService) ListByAuthor(ctx context.Context, authorID string, page, perPage int) (*PostPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = s.cfg.Client.PostsPerPage
	}

	posts, total, err := s.postRepo.List(ctx, repository.PostFilter{
		AuthorID: authorID,
		Page:     page,
		PerPage:  perPage,
	})
	if err != nil {
		return nil, err
	}

	s.expand(ctx, posts)

	return &PostPage{
		Posts:      posts,
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: (total + perPage - 1) / perPage,
	}, nil
}

// expand дополняет посты авторами и счётчиками лайков.
// Отказ на отдельном посте не роняет выдачу.
func (s *feedService) expand(ctx context.Context, posts []models.Post) {
	authors := map[string]*models.User{}

	for i := range posts {
		author, ok := authors[posts[i].AuthorID]
		if !ok {
			var err error
			author, err = s.userRepo.GetUserByID(ctx, posts[i].AuthorID)
			if err != nil {
				author = nil
			}
			authors[posts[i].AuthorID] = author
		}
		posts[i].Author = author

		if count, err := s.likeRepo.Count(ctx, posts[i].PostID); err == nil {
			posts[i].LikesCount = count
		}

		if posts[i].Image != "" {
			posts[i].Image = s.storage.FileURL("posts", posts[i].PostID, posts[i].Image)
		}
	}
}
