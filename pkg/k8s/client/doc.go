// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

// Package client bootstraps the Kubernetes client used for ConfigMap
// sources (cm://namespace/name as a parse input) and ConfigMap destinations
// (cm://namespace/name as an output).
//
// # Usage
//
//	import "github.com/condakit/condameta/pkg/k8s/client"
//
//	clientset, _, err := client.GetKubeClient()
//	if err != nil {
//	    return err
//	}
//	cm, err := clientset.CoreV1().ConfigMaps("default").Get(ctx, "scan", metav1.GetOptions{})
//
// GetKubeClient caches one client per process. GetKubeClientWithConfig and
// BuildKubeClient build an uncached client from an explicit kubeconfig.
//
// # Configuration discovery
//
//  1. An explicit kubeconfig path (--kubeconfig)
//  2. The KUBECONFIG environment variable
//  3. ~/.kube/config
//  4. In-cluster service account configuration
//
// Clients identify themselves with the "condameta" user agent and use a low
// QPS budget since only a few ConfigMaps are read or applied per run.
//
// # Testing
//
// Interface aliases kubernetes.Interface, so tests pass
// k8s.io/client-go/kubernetes/fake clientsets wherever a client is accepted.
package client
