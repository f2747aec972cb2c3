// Package maintenance runs the periodic background jobs: expiring stale
// entries from the in-memory translation cache and removing files that no
// longer have a DB row pointing at them.
package maintenance

import (
	"log"
	"strings"
	"time"

	"gallery/db"
	"gallery/models"
	"gallery/storage"
	"gallery/translate"

	"github.com/robfig/cron/v3"
)

// Files younger than this are left alone, they may belong to an upload whose
// transaction has not committed yet.
const orphanGracePeriod = 24 * time.Hour

// Start schedules the background jobs and returns the running scheduler.
func Start(cache *translate.Cache) *cron.Cron {
	c := cron.New()
	c.AddFunc("@every 10m", func() {
		if n := cache.Sweep(); n > 0 {
			log.Printf("Translation cache: expired %d entries", n)
		}
	})
	c.AddFunc("@daily", func() {
		SweepOrphanImages()
		SweepOrphanAudio()
	})
	c.Start()
	return c
}

// SweepOrphanImages deletes image variants whose stem is referenced by no
// collection image and no blog post. Best-effort; failures are logged and the
// next run retries.
func SweepOrphanImages() {
	known := map[string]bool{}
	var stems []string
	if err := db.Instance.Model(&models.CollectionImage{}).Pluck("file_name", &stems).Error; err != nil {
		log.Printf("Orphan sweep: %v", err)
		return
	}
	for _, s := range stems {
		known[s] = true
	}
	stems = stems[:0]
	if err := db.Instance.Model(&models.BlogPost{}).Where("featured_image != ''").Pluck("featured_image", &stems).Error; err != nil {
		log.Printf("Orphan sweep: %v", err)
		return
	}
	for _, s := range stems {
		known[s] = true
	}

	files, err := storage.Images().ListMatching("")
	if err != nil {
		log.Printf("Orphan sweep list: %v", err)
		return
	}
	cutoff := time.Now().Add(-orphanGracePeriod)
	removed := 0
	for _, name := range files {
		stem := fileStem(name)
		if stem == "" || known[stem] {
			continue
		}
		modified, err := storage.Images().ModTime(name)
		if err != nil || modified.After(cutoff) {
			continue
		}
		if err := storage.Images().Delete(name); err != nil {
			log.Printf("Orphan sweep delete %s: %v", name, err)
			continue
		}
		removed++
	}
	if removed > 0 {
		log.Printf("Orphan sweep: removed %d files", removed)
	}
}

// SweepOrphanAudio removes audio files no collection points at anymore.
func SweepOrphanAudio() {
	var names []string
	if err := db.Instance.Model(&models.Collection{}).Where("audio_file != ''").Pluck("audio_file", &names).Error; err != nil {
		log.Printf("Audio sweep: %v", err)
		return
	}
	known := map[string]bool{}
	for _, n := range names {
		known[n] = true
	}
	files, err := storage.Audio().ListMatching("")
	if err != nil {
		log.Printf("Audio sweep list: %v", err)
		return
	}
	cutoff := time.Now().Add(-orphanGracePeriod)
	removed := 0
	for _, name := range files {
		if known[name] {
			continue
		}
		modified, err := storage.Audio().ModTime(name)
		if err != nil || modified.After(cutoff) {
			continue
		}
		if err := storage.Audio().Delete(name); err != nil {
			log.Printf("Audio sweep delete %s: %v", name, err)
			continue
		}
		removed++
	}
	if removed > 0 {
		log.Printf("Audio sweep: removed %d files", removed)
	}
}

// fileStem maps "abc-960.jpg" and "abc.png" back to the stem "abc"
func fileStem(name string) string {
	dot := strings.LastIndex(name, ".")
	if dot <= 0 {
		return ""
	}
	base := name[:dot]
	for _, w := range []string{"-1600", "-960", "-480"} {
		if strings.HasSuffix(base, w) {
			return base[:len(base)-len(w)]
		}
	}
	return base
}
