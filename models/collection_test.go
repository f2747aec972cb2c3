package models

import (
	"os"
	"testing"

	"gallery/db"
	"gallery/utils"
)

func TestMain(m *testing.M) {
	db.Init("", "file::memory:?cache=shared")
	Init()
	os.Exit(m.Run())
}

func mustCreate(t *testing.T, col *Collection) {
	t.Helper()
	if err := db.Instance.Create(col).Error; err != nil {
		t.Fatalf("create collection: %v", err)
	}
}

func TestUniqueCollectionSlug(t *testing.T) {
	mustCreate(t, &Collection{Title: "Sunset", Slug: "sunset"})
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"free slug", "Old Watch", "old-watch"},
		{"taken once", "Sunset", "sunset-1"},
		{"symbols only falls back", "!!!", "item"},
		{"punctuation", "Grandfather's Clock!! 1890", "grandfathers-clock-1890"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UniqueCollectionSlug(db.Instance, tt.title)
			if err != nil {
				t.Fatalf("UniqueCollectionSlug(%q): %v", tt.title, err)
			}
			if got != tt.want {
				t.Errorf("UniqueCollectionSlug(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestUniqueCollectionSlugChain(t *testing.T) {
	mustCreate(t, &Collection{Title: "Vase", Slug: "vase"})
	mustCreate(t, &Collection{Title: "Vase", Slug: "vase-1"})
	got, err := UniqueCollectionSlug(db.Instance, "Vase")
	if err != nil {
		t.Fatalf("UniqueCollectionSlug: %v", err)
	}
	if got != "vase-2" {
		t.Errorf("UniqueCollectionSlug(\"Vase\") = %q, want \"vase-2\"", got)
	}
}

func TestNextSortOrder(t *testing.T) {
	col := Collection{Title: "Ordering", Slug: "ordering"}
	mustCreate(t, &col)

	next, err := NextSortOrder(db.Instance, col.ID)
	if err != nil {
		t.Fatalf("NextSortOrder: %v", err)
	}
	if next != 0 {
		t.Errorf("NextSortOrder on empty collection = %d, want 0", next)
	}
	for i := 0; i < 3; i++ {
		img := CollectionImage{CollectionID: col.ID, FileName: utils.NewFileStem(), SortOrder: i}
		if err := db.Instance.Create(&img).Error; err != nil {
			t.Fatalf("create image: %v", err)
		}
	}
	next, err = NextSortOrder(db.Instance, col.ID)
	if err != nil {
		t.Fatalf("NextSortOrder: %v", err)
	}
	if next != 3 {
		t.Errorf("NextSortOrder = %d, want 3", next)
	}
}

func TestCollectionsByCategoryPaging(t *testing.T) {
	cat := CategoryStatues
	for i := 0; i < CollectionPageSize+2; i++ {
		slug, err := UniqueCollectionSlug(db.Instance, "Page Statue")
		if err != nil {
			t.Fatalf("slug: %v", err)
		}
		mustCreate(t, &Collection{Title: "Page Statue", Slug: slug, Category: cat})
	}
	page1, err := CollectionsByCategory(&cat, 1)
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if len(page1) != CollectionPageSize {
		t.Errorf("page 1 has %d items, want %d", len(page1), CollectionPageSize)
	}
	page2, err := CollectionsByCategory(&cat, 2)
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if len(page2) != 2 {
		t.Errorf("page 2 has %d items, want 2", len(page2))
	}
}

func TestLocalizedBlogPost(t *testing.T) {
	user := User{Name: "Author", Email: "author@example.com"}
	if err := db.Instance.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	post := BlogPost{Title: "Titul", Content: "Obsah", SourceLang: "cs", AuthorID: user.ID, Published: true}
	if err := db.Instance.Create(&post).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	tr := BlogPostTranslation{BlogPostID: post.ID, LanguageCode: "en", Title: "Title", Content: "Content"}
	if err := db.Instance.Create(&tr).Error; err != nil {
		t.Fatalf("create translation: %v", err)
	}

	title, content := post.Localized("en")
	if title != "Title" || content != "Content" {
		t.Errorf("Localized(en) = %q/%q, want Title/Content", title, content)
	}
	// No Japanese row, falls back to the source text
	title, content = post.Localized("ja")
	if title != "Titul" || content != "Obsah" {
		t.Errorf("Localized(ja) = %q/%q, want source text", title, content)
	}
	title, _ = post.Localized("cs")
	if title != "Titul" {
		t.Errorf("Localized(cs) = %q, want source text", title)
	}
}
