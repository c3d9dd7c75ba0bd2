package schedule

import "time"

func (c *Catalog) SetNow(now func() time.Time) { c.now = now }
