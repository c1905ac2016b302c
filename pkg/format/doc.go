// SPDX-License-Identifier: MPL-2.0

// Package format classifies a project root into a project format and an
// install format.
//
// Two independent axes are detected:
//
//   - The project format identifies the build ecosystem (today only cargo)
//     together with the name and version declared in the ecosystem's own
//     descriptor file. A root without any recognized descriptor yields None.
//   - The install format is Standard unless the ".jellyfish" marker file is
//     present at the root, in which case it is Extended.
//
// Ecosystems are kept in an ordered registry; detection walks it and the
// first ecosystem whose descriptor exists wins. The same registry entry
// tells the build and artifact stages which tool to run and where its
// release output lands.
package format
