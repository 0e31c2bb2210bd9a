// Package toolprovider pulls in the built-in tool implementations so a blank
// import of this package registers them all with tooldef.
package toolprovider

import (
	_ "github.com/kompas-ai/kompas/kompas/agent/toolprovider/citytime"
	_ "github.com/kompas-ai/kompas/kompas/agent/toolprovider/directions"
	_ "github.com/kompas-ai/kompas/kompas/agent/toolprovider/weather"
)
