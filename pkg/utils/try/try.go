package try

// Fataler is something which can stop a test, like *testing.T.
type Fataler interface {
	Fatal(...any)
}

// Either holds a result of a function returning (T, error).
//
// It is "ok" when error is nil, and "ng" otherwise.
type Either[T any] interface {
	// Get returns the pair wrapped.
	Get() (T, error)

	// OrFatal returns the value when ok.
	//
	// Otherwise it calls ftl.Fatal(err) (and ftl.Helper(), if there is).
	OrFatal(ftl Fataler) T

	// OrDefault returns the value when ok, or d when ng.
	OrDefault(d T) T
}

// To wraps a (T, error) pair.
//
//	project := try.To(client.GetProject(ctx, id)).OrFatal(t)
func To[T any](value T, err error) Either[T] {
	if err != nil {
		return ng[T]{err: err}
	}
	return ok[T]{value: value}
}

// Map converts the value of ok Either.
func Map[T any, R any](e Either[T], mapper func(T) R) Either[R] {
	v, err := e.Get()
	if err != nil {
		return ng[R]{err: err}
	}
	return ok[R]{value: mapper(v)}
}

type ok[T any] struct{ value T }

func (o ok[T]) Get() (T, error) { return o.value, nil }
func (o ok[T]) OrFatal(Fataler) T { return o.value }
func (o ok[T]) OrDefault(T) T { return o.value }

type ng[T any] struct{ err error }

func (n ng[T]) Get() (T, error) {
	var zero T
	return zero, n.err
}

func (n ng[T]) OrDefault(d T) T { return d }

func (n ng[T]) OrFatal(ftl Fataler) T {
	if h, ok := ftl.(interface{ Helper() }); ok {
		h.Helper()
	}
	ftl.Fatal(n.err)
	var zero T
	return zero
}
