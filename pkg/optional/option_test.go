package optional

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

type settings struct {
	Retries     Option[int]     `yaml:"retries" json:"retries,omitzero"`
	DelayLoop   Option[float64] `yaml:"delay_loop" json:"delay_loop,omitzero"`
	Virtualhost Option[string]  `yaml:"virtualhost,omitempty" json:"virtualhost,omitzero"`
}

// TestOption_Accessors checks the basic accessors of present and empty
// options.
func TestOption_Accessors(t *testing.T) {
	some := Some(3)
	none := None[int]()

	assert.False(t, some.IsEmpty())
	assert.True(t, none.IsEmpty())
	assert.Equal(t, 3, some.Or(5))
	assert.Equal(t, 5, none.Or(5))
	assert.Equal(t, 0, none.Value())
	assert.Nil(t, none.Ptr())
	assert.Equal(t, 3, *some.Ptr())

	v, ok := some.Get()
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	assert.Equal(t, "3", some.String())
	assert.Equal(t, "<none>", none.String())
}

// TestOption_Ref checks that writes through Ref change the option.
func TestOption_Ref(t *testing.T) {
	o := Some("a")
	*o.Ref() = "b"
	assert.Equal(t, "b", o.Value())

	o.Clear()
	assert.Nil(t, o.Ref())

	var nilOption *Option[string]
	assert.Nil(t, nilOption.Ref())
}

// TestOption_Constructors covers FromPtr and FromPair.
func TestOption_Constructors(t *testing.T) {
	v := 4
	assert.Equal(t, Some(4), FromPtr(&v))
	assert.Equal(t, None[int](), FromPtr[int](nil))
	assert.Equal(t, Some(1), FromPair(1, true))
	assert.Equal(t, None[int](), FromPair(1, false))
}

// TestOption_Map applies a function only to present values.
func TestOption_Map(t *testing.T) {
	double := func(v int) int { return v * 2 }
	assert.Equal(t, Some(4), Map(Some(2), double))
	assert.Equal(t, None[int](), Map(None[int](), double))
}

// TestFormatInt converts optional integers to strings.
func TestFormatInt(t *testing.T) {
	assert.Equal(t, "42", FormatInt(Some(uint16(42))))
	assert.Equal(t, "-1", FormatInt(Some(-1)))
	assert.Equal(t, "", FormatInt(None[int]()))
}

// TestOption_YAML decodes present, null and missing keys.
func TestOption_YAML(t *testing.T) {
	data := []byte("retries: 3\ndelay_loop: null\n")

	var s settings
	require.NoError(t, yaml.Unmarshal(data, &s))
	assert.Equal(t, Some(3), s.Retries)
	assert.True(t, s.DelayLoop.IsEmpty())
	assert.True(t, s.Virtualhost.IsEmpty())

	out, err := yaml.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, "retries: 3\ndelay_loop: null\n", string(out))
}

// TestOption_YAMLInvalid reports type mismatches.
func TestOption_YAMLInvalid(t *testing.T) {
	var s settings
	err := yaml.Unmarshal([]byte("retries: many\n"), &s)
	assert.Error(t, err)
}

// TestOption_JSON decodes null as empty and omits empty options.
func TestOption_JSON(t *testing.T) {
	var s settings
	require.NoError(t, json.Unmarshal([]byte(`{"retries":2,"delay_loop":null}`), &s))
	assert.Equal(t, Some(2), s.Retries)
	assert.True(t, s.DelayLoop.IsEmpty())

	s.Virtualhost = Some("example.com")
	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"retries":2,"virtualhost":"example.com"}`, string(out))
}
