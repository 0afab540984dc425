package types

type (
	// Optional carries a value that may be absent; the zero value is the
	// empty Optional. Partial update commands use these to tell apart "set
	// to zero" from "leave alone".
	Optional[T comparable] struct {
		value  T
		exists bool
	}
)

func NewOptional[T comparable](value T, exists bool) Optional[T] {
	return Optional[T]{value, exists}
}

func NewOptionalOf[T comparable](value T) Optional[T] {
	return Optional[T]{
		value:  value,
		exists: true,
	}
}

func NewEmptyOptional[T comparable]() Optional[T] {
	// could also just use Optional[T]{}
	return Optional[T]{
		exists: false,
	}
}

func (o Optional[T]) Unpack() (T, bool) {
	return o.value, o.exists
}

func (o Optional[T]) Value() T {
	if !o.exists {
		panic("Access value of empty Optional")
	}
	return o.value
}

func (o Optional[T]) Empty() bool {
	return !o.exists
}

func (o Optional[T]) Equals(value T) bool {
	return o.exists && o.value == value
}
