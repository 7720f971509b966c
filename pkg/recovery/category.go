// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package recovery

import (
	"encoding/json"
	"fmt"
	fp "path/filepath"
	"strings"

	"github.com/google/shlex"
)

//Category of a failing command, determining which corrective probe applies.
type Category int

const (
	Unknown Category = iota
	Package          //package manager operation
	Mount            //filesystem mount/unmount
	FileOp           //file copy/move/remove/permission change
)

func (c Category) String() string {
	switch c {
	case Package:
		return "package"
	case Mount:
		return "mount"
	case FileOp:
		return "fileop"
	}
	return "unknown"
}

func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch strings.ToLower(s) {
	case "package":
		*c = Package
	case "mount":
		*c = Mount
	case "fileop":
		*c = FileOp
	case "unknown", "":
		*c = Unknown
	default:
		return fmt.Errorf("unknown recovery category %q", s)
	}
	return nil
}

var packageTools = map[string]bool{
	"pkg_add":    true,
	"pkg_delete": true,
	"pkgin":      true,
	"apt-get":    true,
	"apt":        true,
	"yum":        true,
	"dnf":        true,
}

var mountTools = map[string]bool{
	"mount":  true,
	"umount": true,
}

var fileTools = map[string]bool{
	"cp":      true,
	"mv":      true,
	"rm":      true,
	"install": true,
	"chmod":   true,
	"chown":   true,
	"mkdir":   true,
	"ln":      true,
}

//Classify determines the category of a failing command from its first word.
//Used when the caller did not declare a category itself. Unparseable or
//empty commands are Unknown.
func Classify(command string) Category {
	args, err := shlex.Split(command)
	if err != nil || len(args) == 0 {
		return Unknown
	}
	tool := fp.Base(args[0])
	switch {
	case packageTools[tool]:
		return Package
	case mountTools[tool]:
		return Mount
	case fileTools[tool]:
		return FileOp
	}
	return Unknown
}
