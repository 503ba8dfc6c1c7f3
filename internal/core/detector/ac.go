package detector

// Aho-Corasick automaton over folded UTF-8 keyword bytes
// Keyword lists are small and mostly Polish letters, so transitions are kept
// in sparse per-node maps instead of a 256-way table

type acNode struct {
	next   map[byte]int32
	fail   int32
	output []int32 // keyword ids ending at this node
}

type acAutomaton struct {
	nodes []acNode
	lens  []int // keyword id -> byte length
}

func newAutomaton() *acAutomaton {
	return &acAutomaton{nodes: []acNode{{next: map[byte]int32{}}}}
}

// add inserts pat under id; ids must be dense from 0
func (a *acAutomaton) add(pat string, id int) {
	if len(pat) == 0 {
		return
	}
	for len(a.lens) <= id {
		a.lens = append(a.lens, 0)
	}
	a.lens[id] = len(pat)

	state := int32(0)
	for i := 0; i < len(pat); i++ {
		b := pat[i]
		nxt, ok := a.nodes[state].next[b]
		if !ok {
			nxt = int32(len(a.nodes))
			a.nodes[state].next[b] = nxt
			a.nodes = append(a.nodes, acNode{next: map[byte]int32{}})
		}
		state = nxt
	}
	a.nodes[state].output = append(a.nodes[state].output, int32(id))
}

// build computes failure links breadth first and merges outputs along them
func (a *acAutomaton) build() {
	q := make([]int32, 0, len(a.nodes))
	for _, s := range a.nodes[0].next {
		a.nodes[s].fail = 0
		q = append(q, s)
	}
	for qi := 0; qi < len(q); qi++ {
		r := q[qi]
		for b, s := range a.nodes[r].next {
			q = append(q, s)
			f := a.nodes[r].fail
			for {
				if nxt, ok := a.nodes[f].next[b]; ok && nxt != s {
					a.nodes[s].fail = nxt
					break
				}
				if f == 0 {
					a.nodes[s].fail = 0
					break
				}
				f = a.nodes[f].fail
			}
			a.nodes[s].output = append(a.nodes[s].output, a.nodes[a.nodes[s].fail].output...)
		}
	}
}

func (a *acAutomaton) step(state int32, b byte) int32 {
	for {
		if nxt, ok := a.nodes[state].next[b]; ok {
			return nxt
		}
		if state == 0 {
			return 0
		}
		state = a.nodes[state].fail
	}
}

// findAll calls cb(start, end, id) for every keyword occurrence in text
// scanning stops early when cb returns false
func (a *acAutomaton) findAll(text string, cb func(start, end, id int) bool) {
	state := int32(0)
	for i := 0; i < len(text); i++ {
		state = a.step(state, text[i])
		for _, id := range a.nodes[state].output {
			end := i + 1
			if !cb(end-a.lens[id], end, int(id)) {
				return
			}
		}
	}
}
