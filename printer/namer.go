package printer

import "fmt"

// namer hands out unique identifiers within one printed document.
type namer struct {
	used    map[string]struct{}
	counter uint32
}

func newNamer() *namer {
	return &namer{
		used: make(map[string]struct{}),
	}
}

// claim returns base itself when it is still free, otherwise base with a
// numeric suffix.
func (n *namer) claim(base string) string {
	if _, taken := n.used[base]; !taken {
		n.used[base] = struct{}{}
		return base
	}
	for {
		n.counter++
		candidate := fmt.Sprintf("%s_%d", base, n.counter)
		if _, taken := n.used[candidate]; !taken {
			n.used[candidate] = struct{}{}
			return candidate
		}
	}
}

// tryClaim claims candidate only when it is still free.
func (n *namer) tryClaim(candidate string) bool {
	if _, taken := n.used[candidate]; taken {
		return false
	}
	n.used[candidate] = struct{}{}
	return true
}
