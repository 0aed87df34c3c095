// Copyright 2021-2022
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package pkginfo holds build metadata injected at link time via
// -ldflags (see magefile.go's ldFlags()). The default values below are
// what a `go build` run outside of mage produces.
package pkginfo

var (
	ProgramName = "rebalance-engine"
	Version     = "0.0.0-dev"
	BuildDate   = ""
	CommitHash  = ""
)
