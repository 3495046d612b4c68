/*
Copyright 2021 GramLabs, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1alpha1

// Budget is the step allotment of a trial and the number of steps actually executed.
type Budget struct {
	// The cumulative number of steps granted so far.
	Amount int64 `json:"amount"`
	// The number of steps executed so far.
	Consumption int64 `json:"consumption"`
}

// Remaining returns the number of granted steps that have not been executed.
func (b Budget) Remaining() int64 {
	return b.Amount - b.Consumption
}

// Validate checks the budget invariants.
func (b Budget) Validate() error {
	if b.Amount < 0 || b.Consumption < 0 {
		return NewError(ErrBudgetViolation, "negative budget {amount:%d, consumption:%d}", b.Amount, b.Consumption)
	}
	if b.Consumption > b.Amount {
		return NewError(ErrBudgetViolation, "consumption %d exceeds amount %d", b.Consumption, b.Amount)
	}
	return nil
}
