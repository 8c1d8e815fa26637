package config

import (
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// HCL renders c as a config file that LoadBytes reads back unchanged.
func (c *Config) HCL() []byte {
	f := hclwrite.NewEmptyFile()
	root := f.Body()
	root.SetAttributeValue("listen", cty.StringVal(c.Listen))
	root.AppendNewline()

	log := root.AppendNewBlock("log", nil).Body()
	log.SetAttributeValue("level", cty.StringVal(c.Log.Level))
	log.SetAttributeValue("json", cty.BoolVal(c.Log.JSON))
	root.AppendNewline()

	limits := root.AppendNewBlock("limits", nil).Body()
	limits.SetAttributeValue("max_body_bytes", cty.NumberIntVal(c.Limits.MaxBodyBytes))
	limits.SetAttributeValue("max_iterations", cty.NumberIntVal(int64(c.Limits.MaxIterations)))
	limits.SetAttributeValue("max_decimal_places", cty.NumberIntVal(int64(c.Limits.MaxDecimalPlaces)))
	limits.SetAttributeValue("solve_timeout", cty.StringVal(c.Limits.SolveTimeout))
	root.AppendNewline()

	http := root.AppendNewBlock("http", nil).Body()
	http.SetAttributeValue("read_header_timeout", cty.StringVal(c.HTTP.ReadHeaderTimeout))
	http.SetAttributeValue("read_timeout", cty.StringVal(c.HTTP.ReadTimeout))
	http.SetAttributeValue("write_timeout", cty.StringVal(c.HTTP.WriteTimeout))
	http.SetAttributeValue("idle_timeout", cty.StringVal(c.HTTP.IdleTimeout))

	return f.Bytes()
}
