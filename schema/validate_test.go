/*
 * Copyright 2019 Dgraph Labs, Inc. and Contributors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateKeyDirective(t *testing.T) {
	sch, err := NewSchema("reviews", reviewsSDL)
	require.NoError(t, err)
	product := sch.Type("Product")

	for _, dir := range KeyDirectives(product) {
		require.NoError(t, ValidateKeyDirective(product, dir))
	}

	require.Error(t, ValidateKeyDirective(product, &Directive{Name: KeyDirective, Fields: ""}))
	require.Error(t, ValidateKeyDirective(product, &Directive{Name: KeyDirective, Fields: "doesNotExist"}))
}

func TestValidateRequiresDirective(t *testing.T) {
	sch, err := NewSchema("reviews", reviewsSDL)
	require.NoError(t, err)
	product := sch.Type("Product").(ObjectType)

	dir := RequiresOf(product.Field("reviews"))
	require.NoError(t, ValidateRequiresDirective(product, dir))

	require.Error(t, ValidateRequiresDirective(product, &Directive{Name: RequiresDirective, Fields: "id"}))
}

func TestValidateProvidesDirective(t *testing.T) {
	sch, err := NewSchema("reviews", reviewsSDL)
	require.NoError(t, err)
	review := sch.Type("Review").(ObjectType)

	dir := ProvidesOf(review.Field("product"))
	require.NoError(t, ValidateProvidesDirective(review.Field("product"), dir))

	badDir := &Directive{Name: ProvidesDirective, Fields: "doesNotExist"}
	require.Error(t, ValidateProvidesDirective(review.Field("product"), badDir))
}

func TestValidateProvidesDirective_NonCompositeField(t *testing.T) {
	sch, err := NewSchema("reviews", reviewsSDL)
	require.NoError(t, err)
	review := sch.Type("Review").(ObjectType)

	err = ValidateProvidesDirective(review.Field("body"), &Directive{Name: ProvidesDirective, Fields: "x"})
	require.Error(t, err)
}
