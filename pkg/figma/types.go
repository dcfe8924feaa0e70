package figma

// FileResponse represents the complete response from the Figma file API endpoint.
// It contains the file metadata, the document tree and the metadata of every component
// and component set, keyed by node ID.
type FileResponse struct {
	Name          string                  `json:"name"`
	LastModified  string                  `json:"lastModified"`
	ThumbnailURL  string                  `json:"thumbnailUrl"`
	Version       string                  `json:"version"`
	Document      Node                    `json:"document"`
	Components    map[string]Component    `json:"components"`
	ComponentSets map[string]ComponentSet `json:"componentSets"`
	SchemaVersion int                     `json:"schemaVersion"`
}

// Component represents a Figma component definition with its metadata.
// ComponentSetID is set when the component is a variant of a component set.
type Component struct {
	Key            string `json:"key"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	ComponentSetID string `json:"componentSetId,omitempty"`
}

// ComponentSet is the metadata of a component set, the container of a component's variants.
type ComponentSet struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Node represents a single element in the Figma document tree hierarchy.
type Node struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Visible  *bool  `json:"visible,omitempty"`
	Children []Node `json:"children,omitempty"`
}

// IsVisible reports whether the node is shown. Figma omits the field for visible nodes.
func (n *Node) IsVisible() bool {
	return n.Visible == nil || *n.Visible
}

// ImagesResponse is the response of the images API: a render URL per node ID.
// Nodes that failed to render map to an empty URL.
type ImagesResponse struct {
	Err    string            `json:"err"`
	Status int               `json:"status,omitempty"`
	Images map[string]string `json:"images"`
}
