package recipe

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClip(t *testing.T) {
	t.Run("OpenGraphAndJSONLD", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintln(w, `<!DOCTYPE html>
<html><head>
<title>Fallback Title</title>
<meta property="og:title" content="Creamy Pasta" />
<meta property="og:image" content="https://img.test/pasta.jpg" />
<script type="application/ld+json">
{"@type": "Recipe", "nutrition": {"calories": "650 calories", "proteinContent": "20 g", "carbohydrateContent": "80 g"}}
</script>
</head><body></body></html>`)
		}))
		defer server.Close()

		clipper := NewClipper()
		snapshot, err := clipper.Clip(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if snapshot.Name != "Creamy Pasta" {
			t.Errorf("Expected name 'Creamy Pasta', got '%s'", snapshot.Name)
		}
		if snapshot.Image != "https://img.test/pasta.jpg" {
			t.Errorf("Unexpected image '%s'", snapshot.Image)
		}
		if snapshot.Calories != 650 || snapshot.Protein != 20 || snapshot.Carbs != 80 {
			t.Errorf("Unexpected nutrition: %+v", snapshot)
		}
	})

	t.Run("JSONLDArrayWithGraphTypes", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintln(w, `<html><head>
<meta property="og:title" content="Stew" />
<script type="application/ld+json">
[{"@type": "WebSite"},
 {"@type": ["Thing", "Recipe"], "nutrition": {"calories": "420", "proteinContent": "30 g", "carbohydrateContent": "12 g"}}]
</script>
</head></html>`)
		}))
		defer server.Close()

		clipper := NewClipper()
		snapshot, err := clipper.Clip(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if snapshot.Calories != 420 || snapshot.Protein != 30 {
			t.Errorf("Unexpected nutrition: %+v", snapshot)
		}
	})

	t.Run("FallsBackToTitleTag", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintln(w, `<html><head><title> Grandma's Soup </title></head></html>`)
		}))
		defer server.Close()

		clipper := NewClipper()
		snapshot, err := clipper.Clip(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if snapshot.Name != "Grandma's Soup" {
			t.Errorf("Expected the trimmed title tag, got '%s'", snapshot.Name)
		}
		if snapshot.Calories != 0 {
			t.Errorf("Expected zero calories without JSON-LD, got %v", snapshot.Calories)
		}
	})

	t.Run("NoTitleFails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintln(w, `<html><head></head><body>nothing here</body></html>`)
		}))
		defer server.Close()

		clipper := NewClipper()
		if _, err := clipper.Clip(context.Background(), server.URL); err == nil {
			t.Fatal("Expected an error for a page without a title, got nil")
		}
	})

	t.Run("NonOKStatusFails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		clipper := NewClipper()
		if _, err := clipper.Clip(context.Background(), server.URL); err == nil {
			t.Fatal("Expected an error for a 404 page, got nil")
		}
	})
}

func TestLeadingNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"240 calories", 240},
		{" 12.5 g ", 12.5},
		{"4g", 4},
		{"calories: 240", 0},
		{"", 0},
	}
	for _, tc := range cases {
		if got := leadingNumber(tc.in); got != tc.want {
			t.Errorf("leadingNumber(%q): expected %v, got %v", tc.in, tc.want, got)
		}
	}
}
