package translate

import (
	"log"
	"time"

	"gallery/db"
	"gallery/utils"

	cmap "github.com/orcaman/concurrent-map/v2"
	"gorm.io/gorm/clause"
)

// TranslationCache is the permanent content-addressed memo. A row is keyed by
// a hash of exactly (text, source, target), so identical text never hits the
// provider twice. Rows are only ever inserted.
type TranslationCache struct {
	ID             uint64 `gorm:"primaryKey"`
	CreatedAt      int64
	SourceHash     string `gorm:"type:varchar(64);index:uniq_source_hash,unique;not null"`
	SourceLang     string `gorm:"type:varchar(10)"`
	TargetLang     string `gorm:"type:varchar(10)"`
	SourceText     string `gorm:"type:text"`
	TranslatedText string `gorm:"type:text"`
}

const defaultMemoryTTL = time.Hour

type memoEntry struct {
	text    string
	expires int64
}

// Cache fronts the DB table with an expiring in-process layer so hot lookups
// skip the round-trip. The memory layer is just an accelerator: entries time
// out and are swept periodically, the table is the source of truth.
type Cache struct {
	TTL    time.Duration
	memory cmap.ConcurrentMap[string, memoEntry]
}

func NewCache() *Cache {
	return &Cache{
		TTL:    defaultMemoryTTL,
		memory: cmap.New[memoEntry](),
	}
}

// Init migrates the cache table. Call once at startup, after db.Init.
func Init() {
	db.Instance.AutoMigrate(&TranslationCache{})
}

func cacheKey(text, sourceLang, targetLang string) string {
	return utils.Sha256String(text + "|" + sourceLang + "|" + targetLang)
}

func (c *Cache) Get(text, sourceLang, targetLang string) (string, bool) {
	key := cacheKey(text, sourceLang, targetLang)
	if entry, ok := c.memory.Get(key); ok {
		if entry.expires > time.Now().Unix() {
			return entry.text, true
		}
		c.memory.Remove(key)
	}
	var row TranslationCache
	if err := db.Instance.Where("source_hash = ?", key).First(&row).Error; err != nil {
		return "", false
	}
	c.remember(key, row.TranslatedText)
	return row.TranslatedText, true
}

// Put records a translation. Two racing writers may both insert; the unique
// index plus DO NOTHING makes the second a no-op instead of an error.
func (c *Cache) Put(text, sourceLang, targetLang, translated string) {
	key := cacheKey(text, sourceLang, targetLang)
	row := TranslationCache{
		SourceHash:     key,
		SourceLang:     sourceLang,
		TargetLang:     targetLang,
		SourceText:     text,
		TranslatedText: translated,
	}
	result := db.Instance.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "source_hash"}},
			DoNothing: true,
		}).
		Create(&row)
	if result.Error != nil {
		log.Printf("Cannot store translation cache entry: %v", result.Error)
		return
	}
	// When a racing writer got there first the stored row wins, so only a
	// real insert may populate the memory layer
	if result.RowsAffected > 0 {
		c.remember(key, translated)
	}
}

func (c *Cache) remember(key, text string) {
	c.memory.Set(key, memoEntry{
		text:    text,
		expires: time.Now().Add(c.TTL).Unix(),
	})
}

// Sweep drops expired in-memory entries and returns how many were removed.
// Wired to the maintenance scheduler.
func (c *Cache) Sweep() int {
	now := time.Now().Unix()
	removed := 0
	for item := range c.memory.IterBuffered() {
		if item.Val.expires <= now {
			c.memory.Remove(item.Key)
			removed++
		}
	}
	return removed
}
