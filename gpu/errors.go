// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import "errors"

// ErrNoCUDA is returned by the CUDA memory helpers on builds without a
// real CUDA toolchain (no cgo, or cgo without the cuda build tag).
var ErrNoCUDA = errors.New("gpu: built without CUDA support")
