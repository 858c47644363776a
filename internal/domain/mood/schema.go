package mood

// SchemaType is the JSON type of a schema node.
type SchemaType string

const (
	TypeObject SchemaType = "object"
	TypeArray  SchemaType = "array"
	TypeString SchemaType = "string"
)

// Schema is a backend-neutral subset of JSON schema. Each backend converts it
// to its own representation.
type Schema struct {
	Type             SchemaType
	Description      string
	Properties       map[string]*Schema
	PropertyOrdering []string
	Required         []string
	Items            *Schema
	Enum             []string
	MinItems         int
	MaxItems         int
}

var recommendationFields = []string{"id", "category", "title", "description", "reasoning", "icon"}

// ResponseSchema is the strict output shape requested from every backend.
func ResponseSchema() *Schema {
	categories := make([]string, 0, 3)
	for _, c := range Categories() {
		categories = append(categories, string(c))
	}
	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"summary":      {Type: TypeString},
			"dominantMood": {Type: TypeString},
			"recommendations": {
				Type:     TypeArray,
				MinItems: len(categories),
				MaxItems: len(categories),
				Items: &Schema{
					Type: TypeObject,
					Properties: map[string]*Schema{
						"id":          {Type: TypeString},
						"category":    {Type: TypeString, Enum: categories},
						"title":       {Type: TypeString},
						"description": {Type: TypeString},
						"reasoning":   {Type: TypeString},
						"icon":        {Type: TypeString, Description: "An emoji representing the activity"},
					},
					PropertyOrdering: recommendationFields,
					Required:         recommendationFields,
				},
			},
		},
		PropertyOrdering: []string{"summary", "dominantMood", "recommendations"},
		Required:         []string{"summary", "dominantMood", "recommendations"},
	}
}
