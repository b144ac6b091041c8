package storage

import (
	"encoding/json"
	"errors"
	"math/rand/v2"

	"protein/internal/daykey"
	"protein/internal/kv"

	"go.uber.org/zap"
)

// QuoteKey is the key today's quote choice is stored under.
const QuoteKey = "proteinDailyQuote"

// Quotes are the motivational lines shown under the status, one per day.
var Quotes = []string{
	"Stay strong! 💪",
	"Consistency is key! 🔑",
	"One sip at a time! 🥤",
	"Fuel your body! ⚡",
	"You're doing great! 🌟",
	"Hydrate and thrive! 💧",
	"Keep the streak alive! 🔥",
	"Protein power! 🏋️",
}

type quoteChoice struct {
	DayKey string `json:"dayKey"`
	Index  int    `json:"index"`
}

// SetQuotePicker overrides how a new quote index in [0, n) is chosen.
// Passing nil resets it to a uniform random pick.
func (s *Storage) SetQuotePicker(pick func(n int) int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pick == nil {
		pick = rand.IntN
	}
	s.pickQuote = pick
}

// DailyQuote returns the quote for the current application day. The first
// call of a day picks one and stores the choice, so it stays fixed until the
// reset hour. A failed write only means the pick is not remembered.
func (s *Storage) DailyQuote() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.today()
	if i, ok := s.storedQuote(today); ok {
		return Quotes[i]
	}

	i := s.pickQuote(len(Quotes))
	if i < 0 || i >= len(Quotes) {
		i = 0
	}
	data, err := json.Marshal(quoteChoice{DayKey: today.String(), Index: i})
	if err == nil {
		err = s.backend.Set(QuoteKey, data)
	}
	if err != nil {
		s.logger.Warn("quote write failed", zap.Error(err))
	}
	return Quotes[i]
}

// storedQuote returns the stored index if it was chosen for today.
func (s *Storage) storedQuote(today daykey.Key) (int, bool) {
	data, err := s.backend.Get(QuoteKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.logger.Warn("quote read failed", zap.Error(err))
		}
		return 0, false
	}
	var c quoteChoice
	if err := json.Unmarshal(data, &c); err != nil {
		return 0, false
	}
	day, err := daykey.Parse(c.DayKey)
	if err != nil || day != today || c.Index < 0 || c.Index >= len(Quotes) {
		return 0, false
	}
	return c.Index, true
}
