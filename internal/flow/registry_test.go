package flow

import (
	"testing"

	"github.com/M0SENI/VisaBot/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestDefault_FlowsAreChained(t *testing.T) {
	reg := Default()

	tests := []struct {
		flow     Name
		expected []domain.State
	}{
		{Order, []domain.State{
			domain.StateCollectFullName,
			domain.StateCollectAddress,
			domain.StateCollectMobile,
			domain.StateCollectPassportPhoto,
			domain.StateCollectVerificationVideo,
			domain.StateCollectDepositHash,
		}},
		{ProductCreation, []domain.State{
			domain.StateCollectPhoto,
			domain.StateCollectName,
			domain.StateCollectPrice,
			domain.StateCollectDescriptions,
		}},
		{PriceEdit, []domain.State{domain.StateCollectNewPrice}},
		{DescriptionEdit, []domain.State{domain.StateCollectNewDescription}},
	}

	for _, tt := range tests {
		t.Run(string(tt.flow), func(t *testing.T) {
			steps := reg.Steps(tt.flow)
			var got []domain.State
			for i, s := range steps {
				got = append(got, s.State)
				assert.Equal(t, tt.flow, s.Flow)
				if i < len(steps)-1 {
					assert.Equal(t, steps[i+1].State, s.Next)
				} else {
					assert.True(t, s.Terminal())
				}
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRegistry_FlowOf(t *testing.T) {
	reg := Default()

	name, ok := reg.FlowOf(domain.StateCollectNewPrice)
	assert.True(t, ok)
	assert.Equal(t, PriceEdit, name)

	name, ok = reg.FlowOf(domain.StateCollectNewDescription)
	assert.True(t, ok)
	assert.Equal(t, DescriptionEdit, name)

	_, ok = reg.FlowOf(domain.State("order_unknown"))
	assert.False(t, ok)

	_, ok = reg.Step(domain.StateIdle)
	assert.False(t, ok)
}

func TestNewRegistry_PanicsOnDuplicate(t *testing.T) {
	step := Step{State: domain.StateCollectName, Flow: ProductCreation, Validate: NonEmptyText}

	assert.Panics(t, func() { NewRegistry(step, step) })
}
