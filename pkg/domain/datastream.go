// Package domain defines the datastream attribute model, profile value
// types, and the repository client contract used by fedstream.
package domain

import "slices"

// Attribute identifies one of the fixed datastream attributes recognised by
// the synchronization engine.
type Attribute string

// Recognised datastream attributes. The values map 1:1 with the Fedora REST
// management API parameter names so the outbound request mapping can reuse
// them directly.
const (
	// AttrControlGroup selects how the repository stores the content (M, X, E, R).
	AttrControlGroup Attribute = "controlGroup"
	// AttrLocation points external and redirect datastreams at their content.
	AttrLocation Attribute = "dsLocation"
	// AttrAltIDs carries alternate identifiers for the datastream.
	AttrAltIDs Attribute = "altIDs"
	// AttrLabel is the human-readable datastream label.
	AttrLabel Attribute = "dsLabel"
	// AttrVersionable toggles server-side version retention.
	AttrVersionable Attribute = "versionable"
	// AttrState is the datastream state (A, I, D).
	AttrState Attribute = "dsState"
	// AttrFormatURI records the declared format of the content.
	AttrFormatURI Attribute = "formatURI"
	// AttrChecksumType selects the digest algorithm the repository verifies.
	AttrChecksumType Attribute = "checksumType"
	// AttrChecksum is the expected content digest.
	AttrChecksum Attribute = "checksum"
	// AttrMimeType is the content media type.
	AttrMimeType Attribute = "mimeType"
	// AttrLogMessage is a write-only audit note attached to mutations.
	AttrLogMessage Attribute = "logMessage"
	// AttrIgnoreContent asks the repository to skip content processing.
	AttrIgnoreContent Attribute = "ignoreContent"
	// AttrLastModified mirrors the server-side creation date of the current version.
	AttrLastModified Attribute = "lastModifiedDate"
	// AttrContent is the opaque payload pseudo-attribute. It shares the dirty
	// set with the descriptive attributes but is cached independently.
	AttrContent Attribute = "content"
)

// AttributeSpec declares one entry of the recognised attribute table: the
// attribute name, the remote profile field it resolves from (empty for
// write-only or local-only attributes), and the lifecycle default applied
// only while the datastream does not yet exist remotely.
type AttributeSpec struct {
	Name       Attribute
	ProfileKey string
	Default    any
}

// attributeTable drives the generic get/set pair in internal/core. Order is
// fixed so derived listings stay deterministic.
var attributeTable = []AttributeSpec{
	{Name: AttrControlGroup, ProfileKey: "dsControlGroup", Default: "M"},
	{Name: AttrLocation, ProfileKey: "dsLocation"},
	{Name: AttrAltIDs, ProfileKey: "dsAltID"},
	{Name: AttrLabel, ProfileKey: "dsLabel"},
	{Name: AttrVersionable, ProfileKey: "dsVersionable", Default: true},
	{Name: AttrState, ProfileKey: "dsState", Default: "A"},
	{Name: AttrFormatURI, ProfileKey: "dsFormatURI"},
	{Name: AttrChecksumType, ProfileKey: "dsChecksumType", Default: "DISABLED"},
	{Name: AttrChecksum, ProfileKey: "dsChecksum"},
	{Name: AttrMimeType, ProfileKey: "dsMIME"},
	{Name: AttrLogMessage},
	{Name: AttrIgnoreContent},
	{Name: AttrLastModified, ProfileKey: "dsCreateDate"},
	{Name: AttrContent},
}

var attributeIndex = buildAttributeIndex()

func buildAttributeIndex() map[Attribute]AttributeSpec {
	idx := make(map[Attribute]AttributeSpec, len(attributeTable))
	for _, spec := range attributeTable {
		idx[spec.Name] = spec
	}
	return idx
}

// Attributes returns the recognised attribute names in declaration order.
func Attributes() []Attribute {
	out := make([]Attribute, 0, len(attributeTable))
	for _, spec := range attributeTable {
		out = append(out, spec.Name)
	}
	return out
}

// SpecFor returns the table entry for the named attribute.
func SpecFor(name Attribute) (AttributeSpec, bool) {
	spec, ok := attributeIndex[name]
	return spec, ok
}

// IsRecognised reports whether the name belongs to the recognised attribute set.
func IsRecognised(name Attribute) bool {
	_, ok := attributeIndex[name]
	return ok
}

// LifecycleDefaults returns the attribute defaults that seed the outbound
// parameter mapping while the datastream is new: managed control group,
// active state, checksum verification disabled, versioning on.
func LifecycleDefaults() map[Attribute]any {
	defaults := make(map[Attribute]any)
	for _, spec := range attributeTable {
		if spec.Default != nil {
			defaults[spec.Name] = spec.Default
		}
	}
	return defaults
}

// Profile is the flat descriptive-metadata mapping reported by the remote
// repository for one datastream. Values are strings for single-valued fields
// and []string for fields the repository reported more than once. An empty
// profile means the datastream does not exist remotely.
type Profile map[string]any

// First returns the value for key collapsed to a scalar: the string itself
// for single-valued fields, the first element for multi-valued ones.
func (p Profile) First(key string) (string, bool) {
	switch v := p[key].(type) {
	case string:
		return v, true
	case []string:
		if len(v) > 0 {
			return v[0], true
		}
	}
	return "", false
}

// All returns every value recorded for key, preserving report order.
func (p Profile) All(key string) []string {
	switch v := p[key].(type) {
	case string:
		return []string{v}
	case []string:
		return slices.Clone(v)
	}
	return nil
}
