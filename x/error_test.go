/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package x

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheck_NoError(t *testing.T) {
	require.NotPanics(t, func() {
		Check(nil)
	})
}

func TestAssertTrue_DoesNotExitWhenTrue(t *testing.T) {
	require.NotPanics(t, func() {
		AssertTrue(true)
		AssertTruef(1+1 == 2, "math still works")
	})
}
