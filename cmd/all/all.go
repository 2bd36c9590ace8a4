package all

import (
	_ "github.com/sagan/mapic/cmd/copy"
	_ "github.com/sagan/mapic/cmd/diff"
	_ "github.com/sagan/mapic/cmd/export"
	_ "github.com/sagan/mapic/cmd/list"
	_ "github.com/sagan/mapic/cmd/parse"
	_ "github.com/sagan/mapic/cmd/savemeta"
	_ "github.com/sagan/mapic/cmd/show"
	_ "github.com/sagan/mapic/cmd/thumbs"
)
