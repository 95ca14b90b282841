package ledger

import "errors"

var errUnsupportedChart = errors.New("chart must be sent as application/yaml")
