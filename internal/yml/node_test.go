package yml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNode_Pairs(t *testing.T) {
	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte("z: 1\na: true\nm: [1, x]\n"), &doc))
	root := (*Node)(&doc).Root()

	var keys []string
	values := map[string]interface{}{}
	err := root.Pairs(func(key string, node *Node) error {
		keys = append(keys, key)
		values[key] = node.Interface()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a", "m"}, keys)
	assert.Equal(t, 1, values["z"])
	assert.Equal(t, true, values["a"])
	assert.Equal(t, []interface{}{1, "x"}, values["m"])
	assert.NotNil(t, root.Lookup("Z"))
	assert.Nil(t, root.Lookup("missing"))
}
