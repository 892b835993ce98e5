/*
 * store.go, part of peptidelab.
 *
 * Copyright 2024 The PeptideLab developers
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package selection

import (
	"sort"
	"strings"
)

//Store holds user-named selections, case-insensitively. It is plain
//caller-owned state, never shared between evaluators implicitly, and
//lives only as long as the caller keeps it.
type Store struct {
	m map[string]*Selection
}

//NewStore returns an empty named-selection store.
func NewStore() *Store {
	return &Store{m: make(map[string]*Selection)}
}

//Set saves sel under name, replacing any previous entry for the same
//name in any letter case.
func (st *Store) Set(name string, sel *Selection) {
	st.m[strings.ToLower(name)] = sel
}

//Get returns the selection saved under name, if any.
func (st *Store) Get(name string) (*Selection, bool) {
	sel, ok := st.m[strings.ToLower(name)]
	return sel, ok
}

//Delete removes name from the store, reporting whether it was there.
func (st *Store) Delete(name string) bool {
	k := strings.ToLower(name)
	_, ok := st.m[k]
	delete(st.m, k)
	return ok
}

//Names returns the stored names, lowercased and sorted.
func (st *Store) Names() []string {
	ret := make([]string, 0, len(st.m))
	for k := range st.m {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

//Clear empties the store.
func (st *Store) Clear() {
	st.m = make(map[string]*Selection)
}
