// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package persona

import (
	"context"
)

// ConfigProvider is the external persona configuration lookup. A nil
// configuration with a nil error means the persona does not exist;
// callers must treat absence and disabled as first-class outcomes, not
// errors.
type ConfigProvider interface {
	// Get returns the configuration for id, or nil when absent.
	Get(ctx context.Context, id string) (*Configuration, error)
	// GetAll returns every known configuration.
	GetAll(ctx context.Context) ([]*Configuration, error)
}
