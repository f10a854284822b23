package proc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_updatedEnvFrom(t *testing.T) {
	oldEnvs := []string{
		`X=1`,
		`Y=Z=2`,
	}
	newValues := make(Envs)
	newValues[`X`] = "2"
	newEnvs := updatedEnvFrom(newValues, oldEnvs)
	assert.Len(t, newEnvs, 2)
	envMap := parseEnv(newEnvs)
	assert.Equal(t, `2`, envMap[`X`])
	assert.Equal(t, `Z=2`, envMap[`Y`])
}

func Test_AddIfMissing(t *testing.T) {
	e := Envs{`A`: `1`}
	e.AddIfMissing(`A`, `2`)
	e.AddIfMissing(`B`, `3`)
	assert.Equal(t, `1`, e[`A`])
	assert.Equal(t, `3`, e[`B`])
}
