// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package blas

import (
	"github.com/pkg/errors"

	"github.com/born-ml/hal/framework"
	"github.com/born-ml/hal/frameworks/native"
)

// ErrDimensionMismatch is returned when operand sizes disagree.
var ErrDimensionMismatch = errors.New("blas: dimension mismatch")

func kernels[T framework.Float](lib Host[T]) *native.Routines[T] {
	return native.RoutinesFor[T](lib.Binary())
}

func sameLen(op string, x, y int) error {
	if x != y {
		return errors.Wrapf(ErrDimensionMismatch, "%s: len(x)=%d, len(y)=%d", op, x, y)
	}
	return nil
}

// Asum returns the sum of absolute values of x.
func Asum[T framework.Float](lib Host[T], x []T) T {
	return kernels(lib).Asum(lib.Device(), x)
}

// Axpy computes y += alpha*x.
func Axpy[T framework.Float](lib Host[T], alpha T, x, y []T) error {
	if err := sameLen("axpy", len(x), len(y)); err != nil {
		return err
	}
	kernels(lib).Axpy(lib.Device(), alpha, x, y)
	return nil
}

// Copy copies x into y.
func Copy[T framework.Float](lib Host[T], x, y []T) error {
	if err := sameLen("copy", len(x), len(y)); err != nil {
		return err
	}
	kernels(lib).Copy(lib.Device(), x, y)
	return nil
}

// Dot returns the inner product of x and y.
func Dot[T framework.Float](lib Host[T], x, y []T) (T, error) {
	if err := sameLen("dot", len(x), len(y)); err != nil {
		return 0, err
	}
	return kernels(lib).Dot(lib.Device(), x, y), nil
}

// Nrm2 returns the Euclidean norm of x.
func Nrm2[T framework.Float](lib Host[T], x []T) T {
	return kernels(lib).Nrm2(lib.Device(), x)
}

// Scal computes x *= alpha.
func Scal[T framework.Float](lib Host[T], alpha T, x []T) {
	kernels(lib).Scal(lib.Device(), alpha, x)
}

// Gemm computes c = alpha*a*b + beta*c for row-major a (m×k), b (k×n) and
// c (m×n).
func Gemm[T framework.Float](lib Host[T], m, n, k int, alpha T, a, b []T, beta T, c []T) error {
	switch {
	case m < 0 || n < 0 || k < 0:
		return errors.Wrapf(ErrDimensionMismatch, "gemm: negative dimension m=%d n=%d k=%d", m, n, k)
	case len(a) != m*k:
		return errors.Wrapf(ErrDimensionMismatch, "gemm: len(a)=%d, want %d×%d", len(a), m, k)
	case len(b) != k*n:
		return errors.Wrapf(ErrDimensionMismatch, "gemm: len(b)=%d, want %d×%d", len(b), k, n)
	case len(c) != m*n:
		return errors.Wrapf(ErrDimensionMismatch, "gemm: len(c)=%d, want %d×%d", len(c), m, n)
	}
	kernels(lib).Gemm(lib.Device(), m, n, k, alpha, a, b, beta, c)
	return nil
}
