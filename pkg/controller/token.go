package controller

// List names a list a view fetches.
type List string

const (
	ListProjects   List = "projects"
	ListRoles      List = "roles"
	ListWorklists  List = "worklists"
	ListRecords    List = "records"
	ListConcepts   List = "concepts"
	ListReport     List = "report"
	ListConfigs    List = "configs"
	ListBins       List = "bins"
	ListBinRecords List = "binRecords"
	ListUser       List = "user"
	ListUsers      List = "users"
	ListLog        List = "log"
)

// Token identifies a fetch.
//
// Each list has its own generation. A generation goes forward when a new
// fetch for the list is issued or when a selection the list depends on is
// changed. A fetch result is applied only when its token has the current generation.
type Token struct {
	List       List
	Generation uint64
}

// Stats counts fetch results.
type Stats struct {
	// Issued is the number of tokens issued.
	Issued int

	// Applied is the number of fetch results applied to the view.
	Applied int

	// Discarded is the number of stale fetch results thrown away.
	Discarded int
}

type tokens struct {
	generations map[List]uint64
	stats       Stats
}

func newTokens() *tokens {
	return &tokens{generations: map[List]uint64{}}
}

// issue returns a new token for list. Tokens issued before become stale.
func (t *tokens) issue(list List) Token {
	t.generations[list] += 1
	t.stats.Issued += 1
	return Token{List: list, Generation: t.generations[list]}
}

// current returns the token of the latest generation of list, without issuing a new one.
func (t *tokens) current(list List) Token {
	return Token{List: list, Generation: t.generations[list]}
}

// invalidate makes tokens for lists stale.
func (t *tokens) invalidate(lists ...List) {
	for _, l := range lists {
		t.generations[l] += 1
	}
}

// accept reports tok is current, and counts it.
func (t *tokens) accept(tok Token) bool {
	if t.generations[tok.List] != tok.Generation {
		t.stats.Discarded += 1
		return false
	}
	t.stats.Applied += 1
	return true
}
