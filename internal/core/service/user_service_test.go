package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/citygram/citygram-api/internal/core/domain"
	"github.com/citygram/citygram-api/internal/core/ports"
)

func seedUser(t *testing.T, repo *stubUserRepo, username, city string) *domain.User {
	t.Helper()
	u, err := repo.Create(context.Background(), &domain.User{
		Name:      username,
		Username:  username,
		Email:     username + "@example.com",
		City:      city,
		Role:      domain.RoleUser,
		Followers: []string{},
		Following: []string{},
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

func newUserService(repo *stubUserRepo) (*UserService, *capturePublisher) {
	pub := &capturePublisher{}
	return NewUserService(repo, &stubPresence{byID: map[string]domain.Presence{}}, pub, zerolog.Nop()), pub
}

func TestUserService_FollowUnfollow_RestoresEdges(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newUserService(repo)

	alice := seedUser(t, repo, "alice", "Berlin")
	bob := seedUser(t, repo, "bob", "Madrid")

	if err := svc.Follow(context.Background(), alice.ID, bob.ID); err != nil {
		t.Fatalf("follow failed: %v", err)
	}

	a, _ := repo.FindByID(context.Background(), alice.ID)
	b, _ := repo.FindByID(context.Background(), bob.ID)
	if !a.IsFollowing(bob.ID) {
		t.Fatalf("alice should follow bob")
	}
	if len(b.Followers) != 1 || b.Followers[0] != alice.ID {
		t.Fatalf("bob followers not updated: %v", b.Followers)
	}

	if err := svc.Unfollow(context.Background(), alice.ID, bob.ID); err != nil {
		t.Fatalf("unfollow failed: %v", err)
	}

	a, _ = repo.FindByID(context.Background(), alice.ID)
	b, _ = repo.FindByID(context.Background(), bob.ID)
	if len(a.Following) != 0 || len(b.Followers) != 0 {
		t.Fatalf("edges not restored: following=%v followers=%v", a.Following, b.Followers)
	}
}

func TestUserService_Follow_UnknownTarget(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newUserService(repo)
	alice := seedUser(t, repo, "alice", "Berlin")

	if err := svc.Follow(context.Background(), alice.ID, "missing"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Follow_AlreadyFollowing(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newUserService(repo)
	alice := seedUser(t, repo, "alice", "Berlin")
	bob := seedUser(t, repo, "bob", "Madrid")

	if err := svc.Follow(context.Background(), alice.ID, bob.ID); err != nil {
		t.Fatalf("follow failed: %v", err)
	}
	if err := svc.Follow(context.Background(), alice.ID, bob.ID); err != domain.ErrAlreadyFollowing {
		t.Fatalf("expected ErrAlreadyFollowing, got %v", err)
	}
}

func TestUserService_Follow_Self(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newUserService(repo)
	alice := seedUser(t, repo, "alice", "Berlin")

	if err := svc.Follow(context.Background(), alice.ID, alice.ID); err != domain.ErrSelfFollow {
		t.Fatalf("expected ErrSelfFollow, got %v", err)
	}
}

func TestUserService_Follow_PublishesActivity(t *testing.T) {
	repo := newStubUserRepo()
	svc, pub := newUserService(repo)
	alice := seedUser(t, repo, "alice", "Berlin")
	bob := seedUser(t, repo, "bob", "Madrid")

	if err := svc.Follow(context.Background(), alice.ID, bob.ID); err != nil {
		t.Fatalf("follow failed: %v", err)
	}

	got := pub.published()
	if len(got) != 1 {
		t.Fatalf("expected 1 activity, got %d", len(got))
	}
	if got[0].Type != domain.ActivityFollow || got[0].ActorID != alice.ID || got[0].TargetUserID != bob.ID {
		t.Fatalf("unexpected activity: %+v", got[0])
	}
}

func TestUserService_Unfollow_NotFollowing_Idempotent(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newUserService(repo)
	alice := seedUser(t, repo, "alice", "Berlin")
	bob := seedUser(t, repo, "bob", "Madrid")

	if err := svc.Unfollow(context.Background(), alice.ID, bob.ID); err != nil {
		t.Fatalf("expected idempotent unfollow, got %v", err)
	}
}

func TestUserService_MyProfile_PopulatesFollowLists(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newUserService(repo)
	alice := seedUser(t, repo, "alice", "Berlin")
	bob := seedUser(t, repo, "bob", "Madrid")
	carol := seedUser(t, repo, "carol", "Berlin")

	_ = svc.Follow(context.Background(), alice.ID, bob.ID)
	_ = svc.Follow(context.Background(), carol.ID, alice.ID)

	profile, err := svc.MyProfile(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("MyProfile failed: %v", err)
	}
	if len(profile.Following) != 1 || profile.Following[0].Username != "bob" {
		t.Fatalf("unexpected following: %+v", profile.Following)
	}
	if len(profile.Followers) != 1 || profile.Followers[0].Username != "carol" {
		t.Fatalf("unexpected followers: %+v", profile.Followers)
	}
}

func TestUserService_Profile_HidesEmailAndMergesPresence(t *testing.T) {
	repo := newStubUserRepo()
	pub := &capturePublisher{}
	lastSeen := time.Now().UTC().Truncate(time.Second)
	presence := &stubPresence{byID: map[string]domain.Presence{}}
	svc := NewUserService(repo, presence, pub, zerolog.Nop())

	bob := seedUser(t, repo, "bob", "Madrid")
	presence.byID[bob.ID] = domain.Presence{Online: true, LastSeen: lastSeen}

	got, err := svc.Profile(context.Background(), bob.ID)
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if got.Email != "" {
		t.Fatalf("expected email hidden, got %q", got.Email)
	}
	if !got.IsOnline || !got.LastSeen.Equal(lastSeen) {
		t.Fatalf("presence not merged: online=%v last_seen=%v", got.IsOnline, got.LastSeen)
	}

	if _, err := svc.Profile(context.Background(), "missing"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_UpdateProfile_BioTooLong(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newUserService(repo)
	alice := seedUser(t, repo, "alice", "Berlin")

	long := make([]byte, domain.MaxBioLength+1)
	for i := range long {
		long[i] = 'x'
	}
	bio := string(long)
	if _, err := svc.UpdateProfile(context.Background(), alice.ID, ports.ProfileUpdate{Bio: &bio}); err != domain.ErrBioTooLong {
		t.Fatalf("expected ErrBioTooLong, got %v", err)
	}
}

func TestUserService_UpdateProfile_UsernameConflict(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newUserService(repo)
	alice := seedUser(t, repo, "alice", "Berlin")
	_ = seedUser(t, repo, "bob", "Madrid")

	taken := "bob"
	if _, err := svc.UpdateProfile(context.Background(), alice.ID, ports.ProfileUpdate{Username: &taken}); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	// Keeping your own username is not a conflict.
	own := "alice"
	if _, err := svc.UpdateProfile(context.Background(), alice.ID, ports.ProfileUpdate{Username: &own}); err != nil {
		t.Fatalf("unexpected error keeping own username: %v", err)
	}
}

func TestUserService_UpdateProfile_AppliesFields(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newUserService(repo)
	alice := seedUser(t, repo, "alice", "Berlin")

	name, bio, city := "Alice A.", "hello", "Hamburg"
	updated, err := svc.UpdateProfile(context.Background(), alice.ID, ports.ProfileUpdate{Name: &name, Bio: &bio, City: &city})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if updated.Name != name || updated.Bio != bio || updated.City != city {
		t.Fatalf("fields not applied: %+v", updated)
	}
	if updated.Username != "alice" {
		t.Fatalf("username should be unchanged, got %q", updated.Username)
	}
}

func TestUserService_ListUsers_ClampsAndPaginates(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newUserService(repo)
	for _, name := range []string{"a", "b", "c"} {
		seedUser(t, repo, name, "Berlin")
	}

	result, err := svc.ListUsers(context.Background(), ports.ListUsersFilter{Page: 0, Limit: -1})
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if result.Page != 1 || result.Limit != defaultListLimit {
		t.Fatalf("defaults not applied: page=%d limit=%d", result.Page, result.Limit)
	}
	if result.Total != 3 || result.TotalPages != 1 {
		t.Fatalf("unexpected totals: %d / %d", result.Total, result.TotalPages)
	}
	for _, u := range result.Items {
		if u.PasswordHash != "" {
			t.Fatalf("password hash leaked in listing")
		}
	}

	page2, err := svc.ListUsers(context.Background(), ports.ListUsersFilter{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("ListUsers page 2 failed: %v", err)
	}
	if len(page2.Items) != 1 || page2.TotalPages != 2 {
		t.Fatalf("unexpected page 2: items=%d total_pages=%d", len(page2.Items), page2.TotalPages)
	}
}
