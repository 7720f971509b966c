// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package log

import (
	"fmt"
)

// Attributes describe the current log stack to code outside this package.
// The file sink registers "Filename" so the notifier can point the operator
// at the activity log. Cleared whenever the stack is replaced.
var attrs map[string]interface{} = map[string]interface{}{}

var EAttrExists = fmt.Errorf("An attr with this name already exists")

// Look up an attribute registered by a log in the current stack.
func GetAttr(key string) (interface{}, bool) {
	v, ok := attrs[key]
	return v, ok
}

// Register an attribute. Names must be unique within one stack; a logger
// re-registering an existing name gets EAttrExists.
func SetAttr(key string, val interface{}) error {
	_, exists := attrs[key]
	if exists {
		return EAttrExists
	}
	attrs[key] = val
	return nil
}

//Remove all attrs from the map
func ClearAttrs() {
	for key := range attrs {
		delete(attrs, key)
	}
}
