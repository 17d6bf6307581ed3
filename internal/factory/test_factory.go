package factory

import (
	"time"

	"github.com/tuannh/noichu/internal/dependencies/mocks"
	"github.com/tuannh/noichu/internal/relay"
	"github.com/tuannh/noichu/internal/services/auth"
	"github.com/tuannh/noichu/internal/services/oracle"
	"github.com/tuannh/noichu/internal/storage/memory"
	"github.com/tuannh/noichu/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	Wordlist   *oracle.Static
}

// NewTestApp creates an App configured for testing with mocked
// dependencies and a small Vietnamese wordlist oracle.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	logger := testutil.NopLogger()

	wordlist := oracle.NewStatic(mockRandom)
	wordlist.LoadWords(TestWords())

	app := newWithDependencies(store, wordlist, relay.NewHub(logger), mockClock, mockRandom, auth.DefaultConfig(), logger)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		Wordlist:   wordlist,
	}
}

// TestWords is a small chainable Vietnamese vocabulary. Every word's last
// letter starts several other words, so scripted games never dead-end.
func TestWords() []string {
	return []string{
		"anh", "an", "ai",
		"ba", "bay", "bon",
		"ca", "cay", "con", "cho",
		"di", "dau", "den",
		"em", "en",
		"ga", "gio",
		"hai", "hoa", "hat",
		"im", "in",
		"khi", "kem",
		"la", "lan", "lua",
		"ma", "may", "mua",
		"nam", "nha", "nho", "nuoc",
		"oi", "ong",
		"qua", "quen",
		"ra", "rau", "rong",
		"sao", "sen", "song",
		"ta", "tay", "toi", "tre",
		"uong", "ut",
		"vui", "vua",
		"xanh", "xe",
		"yeu", "yen",
	}
}
