package state

// Parameter represents a named flow parameter declaration
type Parameter struct {
	Name        string      `json:"name" yaml:"name"`
	Required    bool        `json:"required,omitempty" yaml:"required,omitempty"`
	Default     interface{} `json:"default,omitempty" yaml:"default,omitempty"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
}

// Parameters is a collection of parameter declarations
type Parameters []*Parameter

// Add appends a parameter to the collection
func (p *Parameters) Add(name string, required bool) *Parameter {
	param := &Parameter{Name: name, Required: required}
	*p = append(*p, param)
	return param
}

// Get retrieves a parameter by name
func (p Parameters) Get(name string) (*Parameter, bool) {
	for _, param := range p {
		if param.Name == name {
			return param, true
		}
	}
	return nil, false
}

// Required returns names of parameters that must be supplied by the caller.
func (p Parameters) Required() []string {
	var result []string
	for _, param := range p {
		if param.Required && param.Default == nil {
			result = append(result, param.Name)
		}
	}
	return result
}

// Apply returns a copy of values with defaults filled in for absent parameters.
func (p Parameters) Apply(values map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(values)+len(p))
	for _, param := range p {
		if param.Default != nil {
			result[param.Name] = param.Default
		}
	}
	for k, v := range values {
		result[k] = v
	}
	return result
}
