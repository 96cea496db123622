// Copyright 2025 The Freya Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License"). You may
// not use this file except in compliance with the License. A copy of the
// License is located at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// or in the "license" file accompanying this file. This file is distributed
// on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either
// express or implied. See the License for the specific language governing
// permissions and limitations under the License.

package crd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	extv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/client/clientset/clientset/typed/apiextensions/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
)

// Manager is the interface for CustomResourceDefinition management.
type Manager interface {
	Create(ctx context.Context, crd *extv1.CustomResourceDefinition) error
	Ensure(ctx context.Context, crd *extv1.CustomResourceDefinition) error
	Describe(ctx context.Context, name string) (*extv1.CustomResourceDefinition, error)
	Patch(ctx context.Context, crd *extv1.CustomResourceDefinition) error
	Delete(ctx context.Context, name string) error
	WaitUntilEstablished(ctx context.Context, name string, delay time.Duration, maxAttempts int) error
}

var _ Manager = &Client{}

// Client manages CRDs through the apiextensions API.
type Client struct {
	client apiextensionsv1.ApiextensionsV1Interface
	log    logr.Logger
}

// NewClient returns a CRD manager.
func NewClient(client apiextensionsv1.ApiextensionsV1Interface, log logr.Logger) *Client {
	return &Client{
		client: client,
		log:    log.WithName("crd-manager"),
	}
}

func (m *Client) Create(ctx context.Context, crd *extv1.CustomResourceDefinition) error {
	m.log.V(1).Info("Creating CRD", "name", crd.Name)
	_, err := m.client.CustomResourceDefinitions().Create(ctx, crd, metav1.CreateOptions{})
	return err
}

// Ensure creates the CRD if it is missing and waits for it to be
// established; an existing CRD is patched to the desired shape.
func (m *Client) Ensure(ctx context.Context, crd *extv1.CustomResourceDefinition) error {
	m.log.V(1).Info("Ensuring CRD exists", "name", crd.Name)
	_, err := m.Describe(ctx, crd.Name)
	if err != nil {
		if apierrors.IsNotFound(err) {
			if err := m.Create(ctx, crd); err != nil {
				return err
			}
			return m.WaitUntilEstablished(ctx, crd.Name, 150*time.Millisecond, 10)
		}
		return err
	}

	return m.Patch(ctx, crd)
}

func (m *Client) Describe(ctx context.Context, name string) (*extv1.CustomResourceDefinition, error) {
	m.log.V(1).Info("Describing CRD", "name", name)
	return m.client.CustomResourceDefinitions().Get(ctx, name, metav1.GetOptions{})
}

func (m *Client) Patch(ctx context.Context, crd *extv1.CustomResourceDefinition) error {
	m.log.V(1).Info("Patching CRD", "name", crd.Name)
	b, err := json.Marshal(crd)
	if err != nil {
		return err
	}

	_, err = m.client.CustomResourceDefinitions().Patch(ctx, crd.Name, types.MergePatchType, b, metav1.PatchOptions{})
	return err
}

func (m *Client) Delete(ctx context.Context, name string) error {
	m.log.V(1).Info("Deleting CRD", "name", name)
	err := m.client.CustomResourceDefinitions().Delete(ctx, name, metav1.DeleteOptions{})
	if apierrors.IsNotFound(err) {
		return nil
	}
	return err
}

// WaitUntilEstablished polls the CRD until the Established condition turns
// true, giving up after maxAttempts.
func (m *Client) WaitUntilEstablished(ctx context.Context, name string, delay time.Duration, maxAttempts int) error {
	m.log.V(1).Info("Waiting for CRD to be established", "name", name)

	attempts := 0
	for {
		attempts++
		crd, err := m.Describe(ctx, name)
		if err != nil && !apierrors.IsNotFound(err) {
			return err
		}

		if crd != nil {
			for _, condition := range crd.Status.Conditions {
				if condition.Type == extv1.Established && condition.Status == extv1.ConditionTrue {
					m.log.V(1).Info("CRD is established", "name", name)
					return nil
				}
			}
		}

		if attempts >= maxAttempts {
			return fmt.Errorf("CRD %s not established after %d attempts", name, attempts)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}
