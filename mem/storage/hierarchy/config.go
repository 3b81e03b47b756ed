package hierarchy

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/sarchlab/memhier/mem/storage"
	"github.com/sarchlab/memhier/mem/storage/cache"
)

// Prefix of every configuration key.
const envPrefix = "MEMHIER_"

// LevelConfig describes one cache level.
type LevelConfig struct {
	Name         string
	Log2NumSlots uint
	Log2Ways     uint
	Delay        int
	Replace      string
	Seed         int64
}

// Config describes a whole hierarchy. Levels are listed from the one closest
// to the processor to the one right above the terminal store.
type Config struct {
	WordBits uint
	LineBits uint
	MemDelay int
	Levels   []LevelConfig

	// ParallelIDs names transactions with globally unique IDs instead of
	// sequential numbers.
	ParallelIDs bool
}

// DefaultLevel returns the configuration of a direct-mapped, 32-line LRU
// cache with a delay of 2.
func DefaultLevel(name string) LevelConfig {
	return LevelConfig{
		Name:         name,
		Log2NumSlots: 5,
		Delay:        2,
		Replace:      cache.ReplaceLRU,
		Seed:         1,
	}
}

// DefaultConfig returns a 1024-word hierarchy with 4-word lines, a terminal
// store with a delay of 4, and one default cache level named L1.
func DefaultConfig() Config {
	return Config{
		WordBits: 10,
		LineBits: 2,
		MemDelay: 4,
		Levels:   []LevelConfig{DefaultLevel("L1")},
	}
}

// Validate reports the first problem that would make the hierarchy
// impossible to build.
func (c Config) Validate() error {
	if c.WordBits == 0 || c.WordBits > storage.MaxWordBits {
		return fmt.Errorf("word bits must be in [1, %d], got %d",
			storage.MaxWordBits, c.WordBits)
	}

	if c.LineBits > c.WordBits {
		return fmt.Errorf("line bits %d exceed word bits %d",
			c.LineBits, c.WordBits)
	}

	if c.MemDelay < 0 {
		return fmt.Errorf("memory delay must not be negative, got %d",
			c.MemDelay)
	}

	names := map[string]bool{memName: true}

	for _, l := range c.Levels {
		if err := c.validateLevel(l); err != nil {
			return err
		}

		if names[l.Name] {
			return fmt.Errorf("level name %q is used more than once", l.Name)
		}

		names[l.Name] = true
	}

	return nil
}

func (c Config) validateLevel(l LevelConfig) error {
	if l.Name == "" {
		return fmt.Errorf("level name must not be empty")
	}

	if l.Log2Ways > l.Log2NumSlots {
		return fmt.Errorf("level %s: 2^%d ways exceed 2^%d slots",
			l.Name, l.Log2Ways, l.Log2NumSlots)
	}

	indexBits := l.Log2NumSlots - l.Log2Ways
	if c.LineBits+indexBits > c.WordBits {
		return fmt.Errorf("level %s: %d sets of 2^%d words exceed the space",
			l.Name, 1<<indexBits, c.LineBits)
	}

	if l.Delay < 0 {
		return fmt.Errorf("level %s: delay must not be negative, got %d",
			l.Name, l.Delay)
	}

	switch l.Replace {
	case cache.ReplaceLRU, cache.ReplaceRandom:
	default:
		return fmt.Errorf("level %s: replace strategy %q is not supported",
			l.Name, l.Replace)
	}

	return nil
}

// LoadConfig reads a configuration from a dotenv file. Keys that are absent
// keep their default values.
func LoadConfig(path string) (Config, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	return ParseConfig(env)
}

// ParseConfig builds a configuration from MEMHIER_* key-value pairs.
//
// The recognized keys are MEMHIER_WORD_BITS, MEMHIER_LINE_BITS,
// MEMHIER_MEM_DELAY, MEMHIER_PARALLEL_IDS, and MEMHIER_LEVELS, a comma separated list of level
// names. For every level NAME, MEMHIER_NAME_SIZE, MEMHIER_NAME_WAYS,
// MEMHIER_NAME_DELAY, MEMHIER_NAME_REPLACE, and MEMHIER_NAME_SEED may be set.
func ParseConfig(env map[string]string) (Config, error) {
	c := DefaultConfig()
	p := parser{env: env}

	p.uintVar("WORD_BITS", &c.WordBits)
	p.uintVar("LINE_BITS", &c.LineBits)
	p.intVar("MEM_DELAY", &c.MemDelay)
	p.boolVar("PARALLEL_IDS", &c.ParallelIDs)

	if names, ok := env[envPrefix+"LEVELS"]; ok {
		c.Levels = nil

		for _, name := range strings.Split(names, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}

			c.Levels = append(c.Levels, p.level(name))
		}
	}

	if p.err != nil {
		return Config{}, p.err
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

type parser struct {
	env map[string]string
	err error
}

func (p *parser) lookup(key string) (string, bool) {
	v, ok := p.env[envPrefix+key]
	return strings.TrimSpace(v), ok
}

func (p *parser) fail(key string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("parsing %s%s: %w", envPrefix, key, err)
	}
}

func (p *parser) uintVar(key string, dst *uint) {
	v, ok := p.lookup(key)
	if !ok {
		return
	}

	n, err := strconv.ParseUint(v, 0, 32)
	if err != nil {
		p.fail(key, err)
		return
	}

	*dst = uint(n)
}

func (p *parser) intVar(key string, dst *int) {
	v, ok := p.lookup(key)
	if !ok {
		return
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, err)
		return
	}

	*dst = n
}

func (p *parser) boolVar(key string, dst *bool) {
	v, ok := p.lookup(key)
	if !ok {
		return
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(key, err)
		return
	}

	*dst = b
}

func (p *parser) int64Var(key string, dst *int64) {
	v, ok := p.lookup(key)
	if !ok {
		return
	}

	n, err := strconv.ParseInt(v, 0, 64)
	if err != nil {
		p.fail(key, err)
		return
	}

	*dst = n
}

func (p *parser) level(name string) LevelConfig {
	l := DefaultLevel(name)
	key := strings.ToUpper(name) + "_"

	p.uintVar(key+"SIZE", &l.Log2NumSlots)
	p.uintVar(key+"WAYS", &l.Log2Ways)
	p.intVar(key+"DELAY", &l.Delay)
	p.int64Var(key+"SEED", &l.Seed)

	if v, ok := p.lookup(key + "REPLACE"); ok {
		l.Replace = strings.ToLower(v)
	}

	return l
}
