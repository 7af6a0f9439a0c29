package results

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// TimeSeriesName is the file name the simulator uses for one run's time series.
func TimeSeriesName(scenario string, mode Mode, seed int64) string {
	return fmt.Sprintf("%s__%s__seed%d.csv", scenario, mode, seed)
}

func timeSeriesPrefix(scenario string, mode Mode) string {
	return scenario + "__" + string(mode) + "__seed"
}

// OrderPolicy sorts candidate file names; the first one wins.
type OrderPolicy func(names []string)

// LexicalOrder sorts names as plain strings, so seed10 comes before seed2.
func LexicalOrder(names []string) { sort.Strings(names) }

// NumericSeedOrder sorts by the seed number encoded after "__seed". Names
// whose seed does not parse go last, in lexical order.
func NumericSeedOrder(names []string) {
	seedOf := func(name string) (int64, bool) {
		i := strings.LastIndex(name, "__seed")
		if i < 0 {
			return 0, false
		}
		s := strings.TrimSuffix(name[i+len("__seed"):], ".csv")
		n, err := strconv.ParseInt(s, 10, 64)
		return n, err == nil
	}
	sort.SliceStable(names, func(i, j int) bool {
		a, aok := seedOf(names[i])
		b, bok := seedOf(names[j])
		switch {
		case aok && bok && a != b:
			return a < b
		case aok != bok:
			return aok
		}
		return names[i] < names[j]
	})
}

// OrderPolicyByName maps a configuration name to a policy.
func OrderPolicyByName(name string) (OrderPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "lexical":
		return LexicalOrder, nil
	case "numeric":
		return NumericSeedOrder, nil
	}
	return nil, fmt.Errorf("unknown series order %q (want lexical or numeric)", name)
}

// Locator picks the representative time-series file of a scenario and mode.
// It is one seed's file, not a statistical sample.
type Locator struct {
	Dir   string
	Order OrderPolicy
}

// Find returns the first file in Dir named {scenario}__{mode}__seed*.csv
// under the locator's order policy. It reports false when Dir does not exist
// or nothing matches.
func (l Locator) Find(scenario string, mode Mode) (string, bool) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return "", false
	}
	prefix := timeSeriesPrefix(scenario, mode)
	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".csv") {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return "", false
	}
	order := l.Order
	if order == nil {
		order = LexicalOrder
	}
	order(names)
	return filepath.Join(l.Dir, names[0]), true
}

// FindTimeSeriesFile is Find with the lexical policy.
func FindTimeSeriesFile(dir, scenario string, mode Mode) (string, bool) {
	return Locator{Dir: dir, Order: LexicalOrder}.Find(scenario, mode)
}
