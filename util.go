// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package meshkit

import "fmt"

// errf is a small fmt.Errorf wrapper used to build the causes wrapped by
// [Error], kept local so call sites read as plain Go rather than importing
// fmt everywhere a one-line cause is needed.
func errf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
