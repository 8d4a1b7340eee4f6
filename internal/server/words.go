package server

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"spyword/internal/db"

	"gorm.io/gorm"
)

// wordDeck draws secret words for random-mode games. It reads from the
// deck_words table when a database is configured and falls back to an
// embedded deck otherwise.
type wordDeck struct {
	db *gorm.DB

	mu  sync.Mutex
	rng *rand.Rand
}

func newWordDeck(conn *gorm.DB) *wordDeck {
	return &wordDeck{
		db:  conn,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (d *wordDeck) Random(category string) (db.DeckWord, error) {
	category = strings.TrimSpace(category)
	if d.db == nil {
		return d.fallback(category)
	}
	var record db.DeckWord
	query := d.db
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Order("random()").Limit(1).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return d.fallback(category)
		}
		return db.DeckWord{}, err
	}
	return record, nil
}

func (d *wordDeck) fallback(category string) (db.DeckWord, error) {
	pool := make([]db.DeckWord, 0, len(fallbackDeck))
	for _, entry := range fallbackDeck {
		if category != "" && !strings.EqualFold(entry.Category, category) {
			continue
		}
		pool = append(pool, entry)
	}
	if len(pool) == 0 {
		return db.DeckWord{}, errors.New("no words available for category " + category)
	}
	d.mu.Lock()
	entry := pool[d.rng.Intn(len(pool))]
	d.mu.Unlock()
	return entry, nil
}

var fallbackDeck = []db.DeckWord{
	{Text: "Lighthouse", Category: "Places"},
	{Text: "Submarine", Category: "Vehicles"},
	{Text: "Telescope", Category: "Objects"},
	{Text: "Volcano", Category: "Nature"},
	{Text: "Carousel", Category: "Places"},
	{Text: "Parachute", Category: "Objects"},
	{Text: "Glacier", Category: "Nature"},
	{Text: "Saxophone", Category: "Objects"},
	{Text: "Hot Air Balloon", Category: "Vehicles"},
	{Text: "Waterfall", Category: "Nature"},
	{Text: "Drawbridge", Category: "Places"},
	{Text: "Compass", Category: "Objects"},
}
