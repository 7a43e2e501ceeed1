package store_test

import (
	"errors"
	"testing"
	"time"

	"promptclub-backend/internal/models"
	"promptclub-backend/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func insertTestUser(t *testing.T, s *store.Store, id int64, name string, role models.Role, xp int) models.User {
	t.Helper()

	user := models.User{
		ID:       id,
		Name:     name,
		Avatar:   "https://api.dicebear.com/7.x/avataaars/svg?seed=" + name,
		Role:     role,
		Status:   models.StatusOnline,
		Xp:       xp,
		Level:    xp/100 + 1,
		JoinedAt: time.Now(),
	}
	if err := s.InsertUser(user); err != nil {
		t.Fatal(err)
	}
	return user
}

func TestUserRoundTrip(t *testing.T) {
	s := newTestStore(t)
	inserted := insertTestUser(t, s, 10, "bob", models.RoleMember, 150)

	got, err := s.UserByID(10)
	if err != nil {
		t.Fatal(err)
	}

	if got.Name != inserted.Name || got.Role != inserted.Role || got.Xp != 150 || got.Level != 2 {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestUserByIDNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.UserByID(404)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("UserByID on empty store returned %v, want ErrNotFound", err)
	}
}

func TestUserByNameSkipsBot(t *testing.T) {
	s := newTestStore(t)
	insertTestUser(t, s, 1, "PromptBot", models.RoleBot, 99999)
	human := insertTestUser(t, s, 2, "PromptBot", models.RoleMember, 0)

	got, err := s.UserByName("PromptBot")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != human.ID {
		t.Errorf("UserByName resolved user ID [%d], want the non-bot [%d]", got.ID, human.ID)
	}
}

func TestUserByNameOldestWins(t *testing.T) {
	s := newTestStore(t)
	insertTestUser(t, s, 5, "bob", models.RoleMember, 0)
	insertTestUser(t, s, 9, "bob", models.RoleMember, 0)

	got, err := s.UserByName("bob")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != 5 {
		t.Errorf("UserByName resolved user ID [%d], want the oldest record [5]", got.ID)
	}
}

func TestUpdateUser(t *testing.T) {
	s := newTestStore(t)
	user := insertTestUser(t, s, 3, "bob", models.RoleMember, 0)

	user.Role = models.RoleVip
	user.IsMuted = true
	user.MuteUntil = 123456
	if err := s.UpdateUser(user); err != nil {
		t.Fatal(err)
	}

	got, err := s.UserByID(3)
	if err != nil {
		t.Fatal(err)
	}
	if got.Role != models.RoleVip || !got.IsMuted || got.MuteUntil != 123456 {
		t.Errorf("update not persisted: %+v", got)
	}
}

func TestUpdateUserNotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdateUser(models.User{ID: 77, Status: models.StatusOnline, JoinedAt: time.Now()})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("UpdateUser on absent user returned %v, want ErrNotFound", err)
	}
}

func TestUsersOrderedByCreation(t *testing.T) {
	s := newTestStore(t)
	insertTestUser(t, s, 30, "third", models.RoleMember, 0)
	insertTestUser(t, s, 10, "first", models.RoleMember, 0)
	insertTestUser(t, s, 20, "second", models.RoleMember, 0)

	users, err := s.Users()
	if err != nil {
		t.Fatal(err)
	}

	var names []string
	for _, u := range users {
		names = append(names, u.Name)
	}
	if len(names) != 3 || names[0] != "first" || names[1] != "second" || names[2] != "third" {
		t.Errorf("users not in ID order: %v", names)
	}
}

func TestChannelRoundTrip(t *testing.T) {
	s := newTestStore(t)

	channel := models.Channel{ID: 1, Name: "geral", Type: models.ChannelPublic, Description: "General chatter"}
	if err := s.InsertChannel(channel); err != nil {
		t.Fatal(err)
	}

	got, err := s.ChannelByID(1)
	if err != nil {
		t.Fatal(err)
	}
	if got != channel {
		t.Errorf("channel round trip mismatch: %+v", got)
	}
}

func TestMessageLifecycle(t *testing.T) {
	s := newTestStore(t)
	user := insertTestUser(t, s, 1, "bob", models.RoleMember, 0)

	channel := models.Channel{ID: 2, Name: "geral", Type: models.ChannelPublic}
	if err := s.InsertChannel(channel); err != nil {
		t.Fatal(err)
	}

	msg := models.Message{
		ID:        3,
		ChannelID: channel.ID,
		UserID:    user.ID,
		Content:   "hello",
		Timestamp: time.Now().UnixMilli(),
		Type:      models.MessageText,
	}
	if err := s.InsertMessage(msg); err != nil {
		t.Fatal(err)
	}

	deleted, err := s.SoftDeleteMessage(3)
	if err != nil {
		t.Fatal(err)
	}
	if !deleted {
		t.Error("SoftDeleteMessage reported no rows for an existing message")
	}

	messages, err := s.MessagesByChannel(channel.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(messages) != 1 {
		t.Fatalf("soft delete removed the record, have %d messages", len(messages))
	}
	if !messages[0].IsDeleted || messages[0].Content != "hello" {
		t.Errorf("audit record damaged: %+v", messages[0])
	}
}

func TestSoftDeleteAbsentMessage(t *testing.T) {
	s := newTestStore(t)

	deleted, err := s.SoftDeleteMessage(404)
	if err != nil {
		t.Fatal(err)
	}
	if deleted {
		t.Error("SoftDeleteMessage reported rows affected for an absent message")
	}
}

func TestMessageForeignKeys(t *testing.T) {
	s := newTestStore(t)

	msg := models.Message{
		ID:        1,
		ChannelID: 999, // no such channel
		UserID:    999,
		Content:   "orphan",
		Timestamp: time.Now().UnixMilli(),
		Type:      models.MessageText,
	}
	if err := s.InsertMessage(msg); err == nil {
		t.Error("insert with dangling references succeeded, foreign keys are off")
	}
}
