// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package ubq

// RaceEnabled is true when the race detector is active.
// Used by tests to skip concurrent tests of the recycling variant, whose
// cross-variable acquire-release ordering triggers false positives. The
// direct variants synchronize through sync/atomic pointers and run under
// the detector unrestricted.
const RaceEnabled = true
