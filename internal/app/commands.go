package app

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/alexshd/if97"
)

// propertyJSON is the flat, unit-suffixed shape of a property result.
type propertyJSON struct {
	Region         string   `json:"region"`
	Pressure       float64  `json:"pressure_Pa"`
	Temperature    float64  `json:"temperature_K"`
	Enthalpy       *float64 `json:"enthalpy_kJ_kg,omitempty"`
	Entropy        *float64 `json:"entropy_kJ_kgK,omitempty"`
	InternalEnergy *float64 `json:"internal_energy_kJ_kg,omitempty"`
	Density        *float64 `json:"density_kg_m3,omitempty"`
}

func (j *propertyJSON) set(k if97.Property, v float64) {
	switch k {
	case if97.Enthalpy:
		j.Enthalpy = &v
	case if97.Entropy:
		j.Entropy = &v
	case if97.InternalEnergy:
		j.InternalEnergy = &v
	case if97.Density:
		j.Density = &v
	}
}

// saturationJSON flattens both phases with liquid_/vapor_ prefixes.
type saturationJSON struct {
	Pressure             float64 `json:"pressure_Pa"`
	Temperature          float64 `json:"temperature_K"`
	Method               string  `json:"method"`
	Iterations           int     `json:"iterations"`
	HeatOfVaporization   float64 `json:"heat_of_vaporization_kJ_kg"`
	LiquidRegion         string  `json:"liquid_region"`
	LiquidEnthalpy       float64 `json:"liquid_enthalpy_kJ_kg"`
	LiquidEntropy        float64 `json:"liquid_entropy_kJ_kgK"`
	LiquidInternalEnergy float64 `json:"liquid_internal_energy_kJ_kg"`
	LiquidDensity        float64 `json:"liquid_density_kg_m3"`
	VaporRegion          string  `json:"vapor_region"`
	VaporEnthalpy        float64 `json:"vapor_enthalpy_kJ_kg"`
	VaporEntropy         float64 `json:"vapor_entropy_kJ_kgK"`
	VaporInternalEnergy  float64 `json:"vapor_internal_energy_kJ_kg"`
	VaporDensity         float64 `json:"vapor_density_kg_m3"`
}

func writeJSON(e *env, v any) error {
	enc := json.NewEncoder(e.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseProperties reads the --property value: "all" or a comma list.
func parseProperties(s string) ([]if97.Property, error) {
	if strings.TrimSpace(s) == "all" {
		return if97.AllProperties, nil
	}
	var out []if97.Property
	for _, part := range strings.Split(s, ",") {
		k, err := if97.ParseProperty(part)
		if err != nil {
			return nil, usagef("--property: %v", err)
		}
		out = append(out, k)
	}
	return out, nil
}

func runProperty(e *env, args []string) error {
	fs := e.newFlagSet("property", "-p PRESSURE -t TEMPERATURE [options]")
	var (
		ef     engineFlags
		p      = fs.String("p", "", "pressure, e.g. 10MPa (bare numbers are Pa)")
		t      = fs.String("t", "", "temperature, e.g. 500K or 226.85degC (bare numbers are K)")
		props  = fs.String("property", "all", "h, s, u, rho, a comma list, or all")
		format = fs.String("format", "text", "text or json")
	)
	ef.register(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	if *p == "" || *t == "" {
		return usagef("property: both -p and -t are required")
	}
	if err := checkFormat(*format); err != nil {
		return err
	}
	keys, err := parseProperties(*props)
	if err != nil {
		return err
	}
	pq, err := parsePressure(*p)
	if err != nil {
		return err
	}
	tq, err := parseTemperature(*t)
	if err != nil {
		return err
	}
	eng, err := ef.engine(e.logger)
	if err != nil {
		return err
	}

	res, err := eng.Properties(pq, tq)
	if err != nil {
		return err
	}

	if *format == "json" {
		out := propertyJSON{
			Region:      res.Region.String(),
			Pressure:    res.Point.Pressure,
			Temperature: res.Point.Temperature,
		}
		for _, k := range keys {
			out.set(k, res.Get(k).Value)
		}
		return writeJSON(e, out)
	}

	tw := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "region\t%s (IF97 region %d)\n", res.Region, res.Region.Number())
	fmt.Fprintf(tw, "pressure\t%s\n", if97.Q(res.Point.Pressure, if97.Pascal))
	fmt.Fprintf(tw, "temperature\t%s\n", if97.Q(res.Point.Temperature, if97.Kelvin))
	for _, k := range keys {
		q := res.Get(k)
		fmt.Fprintf(tw, "%s\t%.9g %s\n", k, q.Value, q.Unit)
	}
	return tw.Flush()
}

func runSaturation(e *env, args []string) error {
	fs := e.newFlagSet("saturation", "(-p PRESSURE | -t TEMPERATURE) [options]")
	var (
		ef     engineFlags
		p      = fs.String("p", "", "saturation pressure (bare numbers are Pa)")
		t      = fs.String("t", "", "saturation temperature (bare numbers are K)")
		format = fs.String("format", "text", "text or json")
	)
	ef.register(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	if (*p == "") == (*t == "") {
		return usagef("saturation: give exactly one of -p or -t")
	}
	if err := checkFormat(*format); err != nil {
		return err
	}

	var q if97.SaturationQuery
	if *p != "" {
		pq, err := parsePressure(*p)
		if err != nil {
			return err
		}
		q = if97.AtPressure(pq)
	} else {
		tq, err := parseTemperature(*t)
		if err != nil {
			return err
		}
		q = if97.AtTemperature(tq)
	}
	eng, err := ef.engine(e.logger)
	if err != nil {
		return err
	}

	sat, err := eng.Saturation(q)
	if err != nil {
		return err
	}

	if *format == "json" {
		return writeJSON(e, saturationJSON{
			Pressure:             sat.Pressure.Value,
			Temperature:          sat.Temperature.Value,
			Method:               sat.Method.String(),
			Iterations:           sat.Iterations,
			HeatOfVaporization:   sat.HeatOfVaporization.Value,
			LiquidRegion:         sat.Liquid.Region.String(),
			LiquidEnthalpy:       sat.Liquid.Enthalpy.Value,
			LiquidEntropy:        sat.Liquid.Entropy.Value,
			LiquidInternalEnergy: sat.Liquid.InternalEnergy.Value,
			LiquidDensity:        sat.Liquid.Density.Value,
			VaporRegion:          sat.Vapor.Region.String(),
			VaporEnthalpy:        sat.Vapor.Enthalpy.Value,
			VaporEntropy:         sat.Vapor.Entropy.Value,
			VaporInternalEnergy:  sat.Vapor.InternalEnergy.Value,
			VaporDensity:         sat.Vapor.Density.Value,
		})
	}

	tw := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "pressure\t%s\n", sat.Pressure)
	fmt.Fprintf(tw, "temperature\t%s\n", sat.Temperature)
	fmt.Fprintf(tw, "method\t%s (%d iterations)\n", sat.Method, sat.Iterations)
	fmt.Fprintf(tw, "heat of vaporization\t%.9g %s\n", sat.HeatOfVaporization.Value, sat.HeatOfVaporization.Unit)
	fmt.Fprintln(tw, "\tliquid\tvapor\t")
	for _, k := range if97.AllProperties {
		l, v := sat.Liquid.Get(k), sat.Vapor.Get(k)
		fmt.Fprintf(tw, "%s [%s]\t%.9g\t%.9g\t\n", k, l.Unit, l.Value, v.Value)
	}
	return tw.Flush()
}

func runInfo(e *env, args []string) error {
	fs := e.newFlagSet("info", "[--format text|json]")
	format := fs.String("format", "text", "text or json")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := checkFormat(*format); err != nil {
		return err
	}

	info := if97.New(if97.DefaultConfig()).Info()
	if *format == "json" {
		type regionJSON struct {
			Region         string  `json:"region"`
			Number         int     `json:"if97_region"`
			Description    string  `json:"description"`
			TemperatureMin float64 `json:"temperature_min_K"`
			TemperatureMax float64 `json:"temperature_max_K"`
			PressureMin    float64 `json:"pressure_min_Pa"`
			PressureMax    float64 `json:"pressure_max_Pa"`
			Accuracy       float64 `json:"accuracy_percent"`
			Bounds         string  `json:"bounds"`
		}
		out := make([]regionJSON, 0, len(info))
		for _, ri := range info {
			out = append(out, regionJSON{
				Region: ri.Region.String(), Number: ri.Region.Number(), Description: ri.Description,
				TemperatureMin: ri.TemperatureMin, TemperatureMax: ri.TemperatureMax,
				PressureMin: ri.PressureMin, PressureMax: ri.PressureMax,
				Accuracy: ri.Accuracy, Bounds: ri.Bounds,
			})
		}
		return writeJSON(e, out)
	}

	tw := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "region\tT [K]\tP [MPa]\taccuracy\tbounds")
	for _, ri := range info {
		fmt.Fprintf(tw, "%d %s\t%g–%g\t%g–%g\t%g%%\t%s\n",
			ri.Region.Number(), ri.Region,
			ri.TemperatureMin, ri.TemperatureMax,
			ri.PressureMin/1e6, ri.PressureMax/1e6,
			ri.Accuracy, ri.Bounds)
	}
	fmt.Fprintf(tw, "\ncritical exclusion: max(|ΔP|/Pc, |ΔT|/Tc) < %g around (%g MPa, %g K)\n",
		if97.CriticalExclusion, if97.CriticalPressure/1e6, if97.CriticalTemperature)
	return tw.Flush()
}

func runVersion(e *env, args []string) error {
	fs := e.newFlagSet("version", "")
	if err := parse(fs, args); err != nil {
		return err
	}
	_, err := fmt.Fprintf(e.out, "if97 version %s\n", Version)
	return err
}
