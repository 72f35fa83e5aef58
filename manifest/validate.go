package manifest

import (
	"fmt"

	"opwire/record"
)

// Validate checks a manifest structurally: every spec node must set
// exactly one structure key, collections must not be empty, paths must
// parse and type names must resolve. It collects every problem it
// finds; Build refuses a manifest whose diagnostics carry errors.
func Validate(f *File) *Diagnostics {
	res := &Diagnostics{}
	if f == nil {
		res.AddError("manifest_is_nil", "manifest is nil", "")
		return res
	}

	if f.Pipeline == nil {
		res.AddError("missing_pipeline", "manifest has no pipeline", "pipeline")
		return res
	}

	var pipeline Diagnostics

	validateSpec(&pipeline, f.Pipeline, "pipeline")
	res.Merge(pipeline)

	return res
}

func validateSpec(res *Diagnostics, s *Spec, path string) {
	if s == nil {
		res.AddError("empty_spec", "spec node is empty", path)
		return
	}

	set := 0
	if len(s.Compose) > 0 {
		set++
	}
	if len(s.Concat) > 0 {
		set++
	}
	if s.Append != nil {
		set++
	}
	if s.Cycle != nil {
		set++
	}
	if s.Switch != nil {
		set++
	}
	if len(s.Let) > 0 {
		set++
	}
	if s.Const != nil {
		set++
	}
	if s.Id {
		set++
	}
	if s.Empty {
		set++
	}

	if set == 0 {
		res.AddError("empty_spec", "spec node sets no structure key", path)
		return
	}

	if set > 1 {
		res.AddError("ambiguous_spec", "spec node sets more than one structure key", path)
		return
	}

	switch {
	case len(s.Compose) > 0:
		for i, c := range s.Compose {
			validateSpec(res, c, fmt.Sprintf("%s.compose[%d]", path, i))
		}

	case len(s.Concat) > 0:
		for i, c := range s.Concat {
			validateSpec(res, c, fmt.Sprintf("%s.concat[%d]", path, i))
		}

	case s.Append != nil:
		validateSpec(res, s.Append, path+".append")

	case s.Cycle != nil:
		validateCycle(res, s.Cycle, path+".cycle")

	case s.Switch != nil:
		validateSwitch(res, s.Switch, path+".switch")

	case len(s.Let) > 0:
		for i, l := range s.Let {
			validateLet(res, l, fmt.Sprintf("%s.let[%d]", path, i))
		}

	case s.Const != nil:
		for k := range s.Const {
			if _, err := record.ParsePath(k); err != nil {
				res.AddError("bad_path", fmt.Sprintf("invalid const key: %v", err), path+".const")
			}
		}
	}
}

func validateCycle(res *Diagnostics, c *CycleSpec, path string) {
	if c.Of == nil {
		res.AddError("missing_operand", "cycle has no operand", path)
	} else {
		validateSpec(res, c.Of, path+".of")
	}

	if c.Counter != nil && *c.Counter == -1 && c.Key == "" {
		res.AddWarning("unbounded_cycle", "cycle has no counter and no termination key", path)
	}

	if c.Key != "" {
		if _, err := record.ParsePath(c.Key); err != nil {
			res.AddError("bad_path", fmt.Sprintf("invalid cycle key: %v", err), path)
		}
	}
}

func validateSwitch(res *Diagnostics, sw *SwitchSpec, path string) {
	if sw.Key == "" {
		res.AddError("missing_key", "switch has no dispatch key", path)
	} else if _, err := record.ParsePath(sw.Key); err != nil {
		res.AddError("bad_path", fmt.Sprintf("invalid switch key: %v", err), path)
	}

	if len(sw.Cases) == 0 {
		res.AddError("missing_cases", "switch has no cases", path)
	}

	for i, c := range sw.Cases {
		casePath := fmt.Sprintf("%s.cases[%d]", path, i)
		if c.Then == nil {
			res.AddError("missing_operand", "case has no branch", casePath)
			continue
		}

		validateSpec(res, c.Then, casePath+".then")
	}

	if sw.Default != nil {
		validateSpec(res, sw.Default, path+".default")
	}
}

func validateLet(res *Diagnostics, l LetSpec, path string) {
	if l.From == "" {
		res.AddError("missing_path", "let entry has no source path", path)
	} else if _, err := record.ParsePath(l.From); err != nil {
		res.AddError("bad_path", fmt.Sprintf("invalid source path: %v", err), path)
	}

	if l.To != "" {
		if _, err := record.ParsePath(l.To); err != nil {
			res.AddError("bad_path", fmt.Sprintf("invalid target path: %v", err), path)
		}
	}

	if l.Type != "" {
		if _, err := ParseType(l.Type); err != nil {
			res.AddError("bad_type", err.Error(), path)
		}
	}
}
