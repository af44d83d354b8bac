package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"fridge-planner/internal/database"
)

func testRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "fridge.db"))
	if err != nil {
		t.Fatalf("Expected no error opening the database, got %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRepository(db.SQL)
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("Expected no error signing token, got %v", err)
	}
	return token
}

func TestRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("NoCredential", func(t *testing.T) {
		repo := testRepository(t)
		_, err := repo.Token(ctx)
		if !errors.Is(err, ErrNoCredential) {
			t.Fatalf("Expected ErrNoCredential, got %v", err)
		}
	})

	t.Run("SaveAndRead", func(t *testing.T) {
		repo := testRepository(t)
		want := signedToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})

		if err := repo.SaveToken(ctx, want); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		got, err := repo.Token(ctx)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if got != want {
			t.Errorf("Expected the saved token back, got '%s'", got)
		}
	})

	t.Run("SaveReplacesPrevious", func(t *testing.T) {
		repo := testRepository(t)
		if err := repo.SaveToken(ctx, "opaque-one"); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if err := repo.SaveToken(ctx, "opaque-two"); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		got, err := repo.Token(ctx)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if got != "opaque-two" {
			t.Errorf("Expected the newer token, got '%s'", got)
		}
	})

	t.Run("ExpiredTokenRejected", func(t *testing.T) {
		repo := testRepository(t)
		stale := signedToken(t, jwt.MapClaims{"exp": time.Now().Add(-time.Hour).Unix()})

		if err := repo.SaveToken(ctx, stale); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		_, err := repo.Token(ctx)
		if !errors.Is(err, ErrExpiredCredential) {
			t.Fatalf("Expected ErrExpiredCredential, got %v", err)
		}
	})

	t.Run("TokenWithoutExpPasses", func(t *testing.T) {
		repo := testRepository(t)
		token := signedToken(t, jwt.MapClaims{"sub": "user-1"})

		if err := repo.SaveToken(ctx, token); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if _, err := repo.Token(ctx); err != nil {
			t.Errorf("Expected a token without exp to pass, got %v", err)
		}
	})

	t.Run("OpaqueTokenPasses", func(t *testing.T) {
		repo := testRepository(t)
		if err := repo.SaveToken(ctx, "not-a-jwt-at-all"); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if _, err := repo.Token(ctx); err != nil {
			t.Errorf("Expected an opaque token to pass, got %v", err)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		repo := testRepository(t)
		if err := repo.SaveToken(ctx, "opaque"); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if err := repo.Clear(ctx); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if _, err := repo.Token(ctx); !errors.Is(err, ErrNoCredential) {
			t.Errorf("Expected ErrNoCredential after clear, got %v", err)
		}
	})
}

func TestExpired(t *testing.T) {
	now := time.Now()

	if expired("garbage", now) {
		t.Error("Expected an unparseable token to be treated as not expired")
	}

	future := jwt.MapClaims{"exp": now.Add(time.Minute).Unix()}
	tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, future).SignedString([]byte("k"))
	if expired(tok, now) {
		t.Error("Expected a future exp to pass")
	}

	past := jwt.MapClaims{"exp": now.Add(-time.Minute).Unix()}
	tok, _ = jwt.NewWithClaims(jwt.SigningMethodHS256, past).SignedString([]byte("k"))
	if !expired(tok, now) {
		t.Error("Expected a past exp to be expired")
	}
}
