package service

import (
	"context"
	"errors"
	"mime/multipart"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/eatwell/eatwell-backend/internal/app/model"
	"github.com/eatwell/eatwell-backend/internal/db"
	"github.com/eatwell/eatwell-backend/pkg/logger"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logger.Initialize(logger.Config{Level: "error", Format: "console"})
	os.Exit(m.Run())
}

type sentMail struct {
	to      string
	subject string
	body    string
}

// fakeGateway records every message instead of sending it.
type fakeGateway struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (g *fakeGateway) Send(to, subject, body string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	g.sent = append(g.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func (g *fakeGateway) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.sent)
}

func (g *fakeGateway) last() sentMail {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sent[len(g.sent)-1]
}

type fakeRevoker struct {
	revoked map[string]time.Duration
	err     error
}

func (r *fakeRevoker) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if r.err != nil {
		return r.err
	}
	if r.revoked == nil {
		r.revoked = map[string]time.Duration{}
	}
	r.revoked[token] = ttl
	return nil
}

// fakeImageStorage returns a predictable URL per upload.
type fakeImageStorage struct {
	uploads []string
	failOn  string
}

func (s *fakeImageStorage) Upload(ctx context.Context, file *multipart.FileHeader, folder string) (string, error) {
	if file.Filename == s.failOn {
		return "", errors.New("upload failed")
	}
	url := "https://cdn.example.com/" + folder + "/" + file.Filename
	s.uploads = append(s.uploads, url)
	return url, nil
}

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func createTestRestaurant(t *testing.T, testDB *gorm.DB, name string, totalSeats int, slots ...int64) *model.Restaurant {
	t.Helper()
	restaurant := &model.Restaurant{
		Name:        name,
		Rating:      4,
		Cuisines:    model.StringList{"Italian"},
		PriceForTwo: 1200,
		Address:     "1 Church Street",
		Location:    "Bangalore",
		OpeningTime: "12:00",
		ClosingTime: "23:00",
		Phone:       "080-1234567",
		TotalSeats:  totalSeats,
		TimeSlots:   model.Int64List(slots),
	}
	require.NoError(t, testDB.Create(restaurant).Error)
	return restaurant
}

func newVerifiedUser(name, email, passwordHash string) *model.User {
	return &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		IsVerified:   true,
	}
}
