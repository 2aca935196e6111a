package intbound

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ============================================================
// Tool interface: JSON calls for agent frameworks
// ============================================================

// Caps on caller-supplied sizes.
const (
	maxToolArg   = 1024
	maxToolLimit = 4096
)

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
	Class  ErrorClass  `json:"class,omitempty"`
}

// Toolbox dispatches tool calls against a shared cache and searcher.
type Toolbox struct {
	Cache    *Cache
	Searcher *Searcher
}

// NewToolbox returns a toolbox with a fresh cache and a default searcher.
func NewToolbox() *Toolbox {
	return &Toolbox{Cache: NewCache(), Searcher: &Searcher{}}
}

func toolError(err error) ToolResponse {
	return ToolResponse{Error: err.Error(), Class: Classify(err)}
}

// argError marks a special-function failure caused by the caller's n.
func argError(err error) error {
	if errors.Is(err, ErrDomain) || errors.Is(err, ErrNotImplemented) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

// Handle runs one tool call. Failures are reported in the response, never
// as a Go error.
func (tb *Toolbox) Handle(req ToolRequest) ToolResponse {
	getString := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", fmt.Errorf("%w: missing param: %s", ErrInvalidInput, key)
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("%w: param %s must be a string", ErrInvalidInput, key)
		}
		return s, nil
	}
	// getNumber accepts exact decimal strings as well as JSON numbers, since
	// targets routinely exceed float64 precision.
	getNumber := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", fmt.Errorf("%w: missing param: %s", ErrInvalidInput, key)
		}
		switch n := v.(type) {
		case string:
			return n, nil
		case json.Number:
			return n.String(), nil
		case float64:
			if n != math.Trunc(n) || math.Abs(n) > 1<<53 {
				return "", fmt.Errorf("%w: param %s must be an exact integer or a string", ErrInvalidInput, key)
			}
			return strconv.FormatInt(int64(n), 10), nil
		}
		return "", fmt.Errorf("%w: param %s must be a number or a string", ErrInvalidInput, key)
	}
	getInt := func(key string, def, upper int) (int, error) {
		if _, ok := req.Params[key]; !ok {
			return def, nil
		}
		s, err := getNumber(key)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("%w: param %s must be an integer", ErrInvalidInput, key)
		}
		if n > upper {
			return 0, fmt.Errorf("%w: param %s must be at most %d", ErrInvalidInput, key, upper)
		}
		return n, nil
	}
	cache := tb.Cache
	if cache == nil {
		cache = NewCache()
	}

	switch req.Tool {
	case "search":
		keyword, err := getString("family")
		if err != nil {
			return toolError(err)
		}
		a, err := getNumber("a")
		if err != nil {
			return toolError(err)
		}
		b, err := getNumber("b")
		if err != nil {
			return toolError(err)
		}
		limit, err := getInt("limit", 0, maxToolLimit)
		if err != nil {
			return toolError(err)
		}
		if limit < 0 {
			return toolError(fmt.Errorf("%w: param limit must be >= 0", ErrInvalidInput))
		}
		f, err := ParseFamily(keyword, cache)
		if err != nil {
			return toolError(err)
		}
		if pf, ok := f.(*PiPowerFamily); ok && pf.Exponent() > maxToolArg {
			return toolError(fmt.Errorf("%w: family %s: exponent must be at most %d",
				ErrInvalidInput, keyword, maxToolArg))
		}
		t, err := ParseTarget(a, b)
		if err != nil {
			return toolError(err)
		}
		s := Searcher{}
		if tb.Searcher != nil {
			s = *tb.Searcher
		}
		if limit > 0 {
			s.Limit = limit
		}
		c, err := s.Search(f, t)
		if err != nil {
			return toolError(err)
		}
		r := Render(f, c)
		return ToolResponse{Result: r, LaTeX: r.LaTeX, String: FormatSympy(f, c)}

	case "families":
		return ToolResponse{Result: Families(), String: fmt.Sprintf("%d families", len(Families()))}

	case "zeta", "beta":
		n, err := getInt("n", 0, maxToolArg)
		if err != nil {
			return toolError(err)
		}
		var r Rat
		if req.Tool == "zeta" {
			r, err = cache.Zeta(n)
		} else {
			r, err = cache.Beta(n)
		}
		if err != nil {
			return toolError(argError(err))
		}
		return ToolResponse{
			Result: r,
			LaTeX:  r.LaTeX() + latexPower(`\pi`, n),
			String: fmt.Sprintf("%s*pi**%d", r, n),
		}

	case "factorial":
		n, err := getInt("n", 0, maxToolArg)
		if err != nil {
			return toolError(err)
		}
		v, err := cache.Factorial(n)
		if err != nil {
			return toolError(argError(err))
		}
		return ToolResponse{Result: v.String(), LaTeX: v.String(), String: v.String()}

	case "tool_spec":
		return ToolResponse{Result: ToolSpec(), String: "tool specification"}
	}

	return toolError(fmt.Errorf("%w: unknown tool: %s", ErrInvalidInput, req.Tool))
}

// ToolSpec returns the JSON schema of every tool.
func ToolSpec() string {
	tools := []map[string]interface{}{
		ts("search", "Find an integral certificate for A + B*K. Optional: limit (0 = family default)",
			[]string{"family", "a", "b"},
			map[string]string{"family": "string", "a": "string", "b": "string", "limit": "integer"}),
		ts("families", "List the supported family keywords", []string{}, map[string]string{}),
		ts("zeta", "zeta(n)/pi^n for even n > 1", []string{"n"}, map[string]string{"n": "integer"}),
		ts("beta", "Dirichlet beta(n)/pi^n for odd n > 0", []string{"n"}, map[string]string{"n": "integer"}),
		ts("factorial", "n! as a decimal string", []string{"n"}, map[string]string{"n": "integer"}),
		ts("tool_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
