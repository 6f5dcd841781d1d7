package catalog

import (
	"errors"
	"math/rand/v2"
	"sync"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// ErrNoResults is the informational condition for a pick over an empty set.
var ErrNoResults = errors.New("no movies match these filters")

// Picker chooses one movie uniformly at random.
type Picker struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewPicker returns a Picker seeded from the runtime.
func NewPicker() *Picker {
	return &Picker{rnd: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeededPicker returns a deterministic Picker.
func NewSeededPicker(seed uint64) *Picker {
	return &Picker{rnd: rand.New(rand.NewPCG(seed, seed))}
}

// Pick returns ErrNoResults when movies is empty.
func (p *Picker) Pick(movies []model.Movie) (model.Movie, error) {
	if len(movies) == 0 {
		return model.Movie{}, ErrNoResults
	}
	p.mu.Lock()
	i := p.rnd.IntN(len(movies))
	p.mu.Unlock()
	return movies[i], nil
}
