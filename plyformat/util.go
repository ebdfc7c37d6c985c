// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plyformat

import "fmt"

func errf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
