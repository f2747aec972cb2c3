package handlers

import (
	"context"
	"encoding/xml"
	"log"
	"net/http"
	"strconv"
	"time"

	"gallery/config"
	"gallery/db"
	"gallery/models"

	"github.com/gin-gonic/gin"
)

type CollectionListItem struct {
	ID       uint64   `json:"id"`
	Title    string   `json:"title"`
	Slug     string   `json:"slug"`
	Category string   `json:"category"`
	Status   string   `json:"status"`
	Price    string   `json:"price,omitempty"`
	Currency string   `json:"currency,omitempty"`
	Images   []string `json:"images"`
}

type CollectionDetailsResponse struct {
	CollectionListItem
	Description string        `json:"description"`
	AudioFile   string        `json:"audio_file,omitempty"`
	Comments    []CommentInfo `json:"comments"`
}

func listItem(col *models.Collection, title string) CollectionListItem {
	item := CollectionListItem{
		ID:       col.ID,
		Title:    title,
		Slug:     col.Slug,
		Category: col.Category.String(),
		Status:   col.Status.String(),
		Currency: col.Currency.String(),
	}
	if col.Price != nil {
		item.Price = col.Price.StringFixed(2)
	}
	for _, img := range col.Images {
		item.Images = append(item.Images, "/images/"+img.VariantPath(960))
	}
	return item
}

// CollectionList returns one page of the catalog, optionally filtered by
// category, with titles localized for the requested language.
func CollectionList(c *gin.Context) {
	lang := requestLanguage(c)
	page, _ := strconv.Atoi(c.Query("page"))
	if page < 1 {
		page = 1
	}
	var category *models.CollectionCategory
	if s := c.Query("category"); s != "" {
		cat, ok := models.ParseCategory(s)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
			return
		}
		category = &cat
	}
	cols, err := models.CollectionsByCategory(category, page)
	if err != nil {
		log.Printf("Collection list: %v", err)
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	ids := make([]uint64, 0, len(cols))
	for i := range cols {
		ids = append(ids, cols[i].ID)
	}
	titles := map[uint64]string{}
	if lang != config.SOURCE_LANGUAGE {
		titles, err = models.CollectionTitlesFor(ids, lang)
		if err != nil {
			log.Printf("Collection titles: %v", err)
			titles = map[uint64]string{}
		}
	}
	result := []CollectionListItem{}
	for i := range cols {
		title := cols[i].Title
		if t, ok := titles[cols[i].ID]; ok && t != "" {
			title = t
		}
		result = append(result, listItem(&cols[i], title))
	}
	c.JSON(http.StatusOK, gin.H{
		"page":     page,
		"category": c.Query("category"),
		"items":    result,
	})
}

// CollectionDetails returns a single item by slug. When a stored translation
// is missing for the requested language, a live (cached) translation is
// attempted before falling back to the source text.
func CollectionDetails(c *gin.Context) {
	lang := requestLanguage(c)
	col, err := models.CollectionBySlug(c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	title, description := col.Title, col.Description
	if lang != config.SOURCE_LANGUAGE {
		tr, ok := models.CollectionTranslationFor(col.ID, lang)
		if ok {
			title, description = tr.Title, tr.Description
		} else if Translator != nil && Translator.Supports(lang) {
			title = liveTranslate(c.Request.Context(), col.Title, lang)
			description = liveTranslate(c.Request.Context(), col.Description, lang)
		}
	}
	item := listItem(&col, title)
	comments, err := commentsFor(col.ID)
	if err != nil {
		log.Printf("Comments for %d: %v", col.ID, err)
		comments = []CommentInfo{}
	}
	response := CollectionDetailsResponse{
		CollectionListItem: item,
		Description:        description,
		Comments:           comments,
	}
	if col.AudioFile != "" {
		response.AudioFile = "/audio/" + col.AudioFile
	}
	c.JSON(http.StatusOK, response)
}

func liveTranslate(ctx context.Context, text, lang string) string {
	out, err := Translator.Translate(ctx, text, config.SOURCE_LANGUAGE, lang)
	if err != nil {
		log.Printf("Live translation to %s: %v", lang, err)
	}
	return out
}

// CategoryLabels returns the category names for the requested language, used
// to build the public navigation.
func CategoryLabels(c *gin.Context) {
	lang := requestLanguage(c)
	labels := map[string]string{}
	for cat := models.CategoryPaintings; cat <= models.CategoryOther; cat++ {
		labels[cat.String()] = models.CategoryLabel(cat, lang)
	}
	c.JSON(http.StatusOK, labels)
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// Sitemap lists every collection page plus the category landing pages.
func Sitemap(c *gin.Context) {
	base := "https://" + c.Request.Host
	set := sitemapURLSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	set.URLs = append(set.URLs, sitemapURL{Loc: base + "/"})
	for cat := models.CategoryPaintings; cat <= models.CategoryOther; cat++ {
		set.URLs = append(set.URLs, sitemapURL{Loc: base + "/category/" + cat.String()})
	}
	rows, err := db.Instance.Table("collections").
		Select("slug, updated_at").
		Order("updated_at DESC").
		Rows()
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	defer rows.Close()
	for rows.Next() {
		var slug string
		var updated int64
		if err = rows.Scan(&slug, &updated); err != nil {
			c.JSON(http.StatusInternalServerError, DBError2Response)
			return
		}
		set.URLs = append(set.URLs, sitemapURL{
			Loc:     base + "/item/" + slug,
			LastMod: time.Unix(updated, 0).Format("2006-01-02"),
		})
	}
	c.XML(http.StatusOK, set)
}
