package stream

import "context"

// CombineLatest3 holds the latest value of each input and, once all three have
// emitted, produces combine(latest...) on every further emission of any input.
// There is no batching: one input event yields one output.
//
// The returned subscription owns the inputs. It ends when any input ends,
// carrying that input's error, and closing it closes every input once.
func CombineLatest3[A, B, C, R any](
	ctx context.Context,
	a Subscription[A],
	b Subscription[B],
	c Subscription[C],
	combine func(A, B, C) R,
) Subscription[R] {
	return New(ctx, func(ctx context.Context, emit func(R) bool) error {
		defer a.Close()
		defer b.Close()
		defer c.Close()

		var (
			va               A
			vb               B
			vc               C
			hasA, hasB, hasC bool
		)

		for {
			select {
			case <-ctx.Done():
				return nil
			case v, ok := <-a.Updates():
				if !ok {
					return a.Err()
				}
				va, hasA = v, true
			case v, ok := <-b.Updates():
				if !ok {
					return b.Err()
				}
				vb, hasB = v, true
			case v, ok := <-c.Updates():
				if !ok {
					return c.Err()
				}
				vc, hasC = v, true
			}

			if hasA && hasB && hasC {
				if !emit(combine(va, vb, vc)) {
					return nil
				}
			}
		}
	})
}

// CombineLatest2 is the two-input form of CombineLatest3.
func CombineLatest2[A, B, R any](
	ctx context.Context,
	a Subscription[A],
	b Subscription[B],
	combine func(A, B) R,
) Subscription[R] {
	return New(ctx, func(ctx context.Context, emit func(R) bool) error {
		defer a.Close()
		defer b.Close()

		var (
			va         A
			vb         B
			hasA, hasB bool
		)

		for {
			select {
			case <-ctx.Done():
				return nil
			case v, ok := <-a.Updates():
				if !ok {
					return a.Err()
				}
				va, hasA = v, true
			case v, ok := <-b.Updates():
				if !ok {
					return b.Err()
				}
				vb, hasB = v, true
			}

			if hasA && hasB {
				if !emit(combine(va, vb)) {
					return nil
				}
			}
		}
	})
}
