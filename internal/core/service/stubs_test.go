package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/citygram/citygram-api/internal/core/domain"
	"github.com/citygram/citygram-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories shared by the service tests
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	clone.Followers = append([]string(nil), u.Followers...)
	clone.Following = append([]string(nil), u.Following...)
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	clone := cloneUser(user)
	clone.ID = fmt.Sprintf("u%d", r.seq)
	r.users[clone.ID] = clone
	return cloneUser(clone), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmailOrUsername(_ context.Context, email, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email || u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindManyByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

// AddFollow applies both sides under one lock, mirroring the transactional
// Mongo implementation.
func (r *stubUserRepo) AddFollow(_ context.Context, followerID, targetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	follower, ok1 := r.users[followerID]
	target, ok2 := r.users[targetID]
	if !ok1 || !ok2 {
		return domain.ErrUserNotFound
	}
	follower.Following = appendUnique(follower.Following, targetID)
	target.Followers = appendUnique(target.Followers, followerID)
	return nil
}

func (r *stubUserRepo) RemoveFollow(_ context.Context, followerID, targetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if follower, ok := r.users[followerID]; ok {
		follower.Following = remove(follower.Following, targetID)
	}
	if target, ok := r.users[targetID]; ok {
		target.Followers = remove(target.Followers, followerID)
	}
	return nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id string, update ports.ProfileUpdate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.Username != nil {
		u.Username = *update.Username
	}
	if update.Bio != nil {
		u.Bio = *update.Bio
	}
	if update.City != nil {
		u.City = *update.City
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context, filter ports.ListUsersFilter) ([]*domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, cloneUser(u))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	total := int64(len(all))
	skip := (filter.Page - 1) * filter.Limit
	if skip >= len(all) {
		return nil, total, nil
	}
	end := skip + filter.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[skip:end], total, nil
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

type stubPostRepo struct {
	mu    sync.Mutex
	posts map[string]*domain.Post
	order []string // insertion order, oldest first
	seq   int
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{posts: make(map[string]*domain.Post)}
}

func clonePost(p *domain.Post) *domain.Post {
	clone := *p
	clone.Likes = append([]string(nil), p.Likes...)
	clone.Comments = append([]domain.Comment(nil), p.Comments...)
	return &clone
}

func (r *stubPostRepo) Create(_ context.Context, post *domain.Post) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	clone := clonePost(post)
	clone.ID = fmt.Sprintf("p%d", r.seq)
	r.posts[clone.ID] = clone
	r.order = append(r.order, clone.ID)
	return clonePost(clone), nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return clonePost(p), nil
}

func (r *stubPostRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return domain.ErrPostNotFound
	}
	delete(r.posts, id)
	r.order = remove(r.order, id)
	return nil
}

func (r *stubPostRepo) SetLike(_ context.Context, postID, actorID string, like bool) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	if !ok {
		return 0, domain.ErrPostNotFound
	}
	if like {
		p.Likes = appendUnique(p.Likes, actorID)
	} else {
		p.Likes = remove(p.Likes, actorID)
	}
	return len(p.Likes), nil
}

func (r *stubPostRepo) AppendComment(_ context.Context, postID string, comment domain.Comment) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	r.seq++
	comment.ID = fmt.Sprintf("c%d", r.seq)
	p.Comments = append(p.Comments, comment)
	return append([]domain.Comment(nil), p.Comments...), nil
}

func (r *stubPostRepo) ListAll(_ context.Context) ([]*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Post, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		out = append(out, clonePost(r.posts[r.order[i]]))
	}
	return out, nil
}

func (r *stubPostRepo) Feed(_ context.Context, filter ports.FeedFilter) ([]*domain.Post, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	followed := make(map[string]struct{}, len(filter.FollowingIDs))
	for _, id := range filter.FollowingIDs {
		followed[id] = struct{}{}
	}

	matched := make([]*domain.Post, 0)
	for i := len(r.order) - 1; i >= 0; i-- { // newest first
		p := r.posts[r.order[i]]
		if _, ok := followed[p.AuthorID]; ok || p.City == filter.City {
			matched = append(matched, clonePost(p))
		}
	}

	total := int64(len(matched))
	skip := (filter.Page - 1) * filter.Limit
	if skip >= len(matched) {
		return nil, total, nil
	}
	end := skip + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

// capturePublisher records published activities synchronously.
type capturePublisher struct {
	mu     sync.Mutex
	inputs []ports.ActivityInput
}

func (p *capturePublisher) Publish(input ports.ActivityInput) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inputs = append(p.inputs, input)
}

func (p *capturePublisher) published() []ports.ActivityInput {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ports.ActivityInput(nil), p.inputs...)
}

// stubPresence serves canned presence values.
type stubPresence struct {
	byID map[string]domain.Presence
}

func (s *stubPresence) Touch(_ context.Context, _ string) error { return nil }

func (s *stubPresence) Get(_ context.Context, userID string) (domain.Presence, error) {
	return s.byID[userID], nil
}
