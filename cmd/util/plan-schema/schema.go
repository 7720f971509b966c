// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Plan-schema generates a json schema for provdiag/pkg/steps plans.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"provdiag/pkg/steps"

	"github.com/alecthomas/jsonschema"
)

const Warn = `WARNING:
	schema will need to be hand-edited, as the output isn't perfect
	* jsonschema doesn't realize that certain types are marshalled as strings
	* jsonschema assumes no additional properties are allowed
`

func main() {
	fmt.Fprint(os.Stderr, Warn)
	schem := jsonschema.Reflect(&steps.Plan{})
	data, err := json.MarshalIndent(schem, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		return
	}
	fmt.Printf("%s\n", data)
}
