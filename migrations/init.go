package migrations

import (
	xlist "github.com/Harshan-Nayak/xlist"
)

func init() {
	Register(xlist.GetMigrationsFS())
}
