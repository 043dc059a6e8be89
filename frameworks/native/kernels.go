// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package native

import (
	"math"

	"github.com/born-ml/hal/framework"
	"github.com/born-ml/hal/internal/parallel"
)

// Routines are the host BLAS kernels for one precision.
// Callers are responsible for checking vector and matrix dimensions.
type Routines[T framework.Float] struct {
	Asum func(d *Device, x []T) T           // sum of |x[i]|
	Axpy func(d *Device, alpha T, x, y []T) // y += alpha*x
	Copy func(d *Device, x, y []T)          // y = x
	Dot  func(d *Device, x, y []T) T        // sum of x[i]*y[i]
	Nrm2 func(d *Device, x []T) T           // euclidean norm
	Scal func(d *Device, alpha T, x []T)    // x *= alpha

	// Gemm computes c = alpha*a*b + beta*c for row-major a (m×k), b (k×n)
	// and c (m×n).
	Gemm func(d *Device, m, n, k int, alpha T, a, b []T, beta T, c []T)
}

func newRoutines[T framework.Float]() *Routines[T] {
	return &Routines[T]{
		Asum: asum[T],
		Axpy: axpy[T],
		Copy: copyVec[T],
		Dot:  dot[T],
		Nrm2: nrm2[T],
		Scal: scal[T],
		Gemm: gemm[T],
	}
}

// reduce sums part over the chunks of [0, n).
func reduce[T framework.Float](d *Device, n int, part func(start, end int) T) T {
	partials := make([]T, parallel.Chunks(n, d.pool))
	parallel.ForRange(n, func(chunk, start, end int) {
		partials[chunk] = part(start, end)
	}, d.pool)

	var total T
	for _, p := range partials {
		total += p
	}
	return total
}

func asum[T framework.Float](d *Device, x []T) T {
	return reduce(d, len(x), func(start, end int) T {
		var s T
		for _, v := range x[start:end] {
			if v < 0 {
				s -= v
			} else {
				s += v
			}
		}
		return s
	})
}

func axpy[T framework.Float](d *Device, alpha T, x, y []T) {
	parallel.ForRange(len(x), func(_, start, end int) {
		for i := start; i < end; i++ {
			y[i] += alpha * x[i]
		}
	}, d.pool)
}

func copyVec[T framework.Float](d *Device, x, y []T) {
	parallel.ForRange(len(x), func(_, start, end int) {
		copy(y[start:end], x[start:end])
	}, d.pool)
}

func dot[T framework.Float](d *Device, x, y []T) T {
	return reduce(d, len(x), func(start, end int) T {
		var s T
		for i := start; i < end; i++ {
			s += x[i] * y[i]
		}
		return s
	})
}

func nrm2[T framework.Float](d *Device, x []T) T {
	// Scale by the largest magnitude so squares neither overflow nor underflow.
	var scale T
	for _, v := range x {
		scale = max(scale, T(math.Abs(float64(v))))
	}
	if scale == 0 {
		return 0
	}
	ssq := reduce(d, len(x), func(start, end int) T {
		var s T
		for _, v := range x[start:end] {
			r := v / scale
			s += r * r
		}
		return s
	})
	return scale * T(math.Sqrt(float64(ssq)))
}

func scal[T framework.Float](d *Device, alpha T, x []T) {
	parallel.ForRange(len(x), func(_, start, end int) {
		for i := start; i < end; i++ {
			x[i] *= alpha
		}
	}, d.pool)
}

// gemm distributes the rows of c across the pool.
func gemm[T framework.Float](d *Device, m, n, k int, alpha T, a, b []T, beta T, c []T) {
	pool := d.pool
	if work := n * max(k, 1); work > 0 {
		pool.MinChunkSize = max(1, d.pool.MinChunkSize/work)
	}

	parallel.For(m, func(i int) {
		row := c[i*n : (i+1)*n]
		switch beta {
		case 0:
			clear(row)
		case 1:
		default:
			for j := range row {
				row[j] *= beta
			}
		}
		for p := 0; p < k; p++ {
			av := alpha * a[i*k+p]
			if av == 0 {
				continue
			}
			bRow := b[p*n : (p+1)*n]
			for j, bv := range bRow {
				row[j] += av * bv
			}
		}
	}, pool)
}
