// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package assets provides access to the application's static assets and
translation catalogs.

main assigns the embedded file system at startup; tests may install an
fstest.MapFS or os.DirFS instead.
*/
package assets

import (
	"io/fs"
)

// FS is the root of the asset tree: css/, img/, js/ and po/.
var FS fs.FS
