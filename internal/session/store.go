package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pagedraft/internal/models"
)

// Session - текущее состояние аутентификации клиента.
// ExpiresAt берётся из exp-claim access-токена; нулевое значение
// означает токен без срока.
type Session struct {
	Token        string
	RefreshToken string
	User         *models.User
	ExpiresAt    time.Time
}

// Valid сообщает, можно ли считать сессию действующей.
// Истёкший access-токен делает сессию недействительной даже без логаута.
func (s Session) Valid() bool {
	if s.Token == "" || s.User == nil {
		return false
	}
	if s.ExpiresAt.IsZero() {
		return true
	}
	return time.Now().Before(s.ExpiresAt)
}

// Store - единое на процесс хранилище сессии с подпиской на изменения.
// Каждый потребитель обязан снять подписку возвращённой функцией,
// иначе он продолжит получать уведомления после своего "размонтирования".
type Store struct {
	mu      sync.Mutex
	session Session
	subs    map[int]func(Session)
	nextID  int
}

func NewStore() *Store {
	return &Store{
		subs: make(map[int]func(Session)),
	}
}

func (s *Store) Current() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

func (s *Store) Valid() bool {
	return s.Current().Valid()
}

func (s *Store) User() *models.User {
	return s.Current().User
}

// Set устанавливает сессию и уведомляет подписчиков.
func (s *Store) Set(token string, user *models.User) {
	s.apply(Session{Token: token, User: user, ExpiresAt: tokenExpiry(token)})
}

// SetWithRefresh дополнительно сохраняет refresh-токен для
// перевыпуска access-токена после его истечения.
func (s *Store) SetWithRefresh(token, refreshToken string, user *models.User) {
	s.apply(Session{
		Token:        token,
		RefreshToken: refreshToken,
		User:         user,
		ExpiresAt:    tokenExpiry(token),
	})
}

// Clear сбрасывает сессию (logout) и уведомляет подписчиков.
func (s *Store) Clear() {
	s.apply(Session{})
}

func (s *Store) apply(session Session) {
	s.mu.Lock()
	s.session = session
	listeners := s.snapshotLocked()
	current := s.session
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(current)
	}
}

// OnChange регистрирует слушателя и возвращает функцию снятия подписки.
func (s *Store) OnChange(fn func(Session)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) snapshotLocked() []func(Session) {
	listeners := make([]func(Session), 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	return listeners
}

// tokenExpiry достаёт exp из токена без проверки подписи:
// секрет есть только у сервера, клиенту нужен лишь срок действия.
func tokenExpiry(token string) time.Time {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}

	return exp.Time
}
