// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
i18n_extract writes po/choosestockbroker.pot from the message IDs passed to
the i18n package:

	i18n.Tr(ctx, "msgid", ...)
	i18n.TrN(ctx, "singular", "plural", n, ...)
	i18n.NewUserError(ctx, "msgid", ...)
	i18n.MsgKey("msgid"), including untyped constants assigned to MsgKey
	parameters, struct fields, slices and maps

With -check it writes nothing and instead lists, per catalog in po/, the
msgids of the template that the catalog lacks, exiting 1 if there are any.
*/
package main

import (
	"bufio"
	"flag"
	"fmt"
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/tools/go/packages"
)

// key identifies a gettext entry. plural is empty for singular entries.
type key struct {
	id     string
	plural string
}

type ref struct {
	file string
	line int
}

// extractor collects references for the files of one package.
type extractor struct {
	refs     map[key][]ref
	root     string
	fset     *token.FileSet
	info     *types.Info
	i18nPkgs map[string]struct{}
}

func main() {
	outPath := flag.String("o", "po/choosestockbroker.pot", "output file")
	check := flag.Bool("check", false, "report msgids missing from po/*.po instead of writing the template")
	flag.Parse()

	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("failed to get working directory: %v", err)
	}

	pkgs, err := packages.Load(&packages.Config{Mode: packages.LoadAllSyntax}, "./...")
	if err != nil {
		log.Fatalf("failed to load packages: %v", err)
	}

	if packages.PrintErrors(pkgs) > 0 {
		log.Fatal("failed to load packages due to errors")
	}

	root := findProjectRoot(wd)
	refs := extractRefs(pkgs, root, findI18nPkgPaths(pkgs))

	if *check {
		if missing := checkCatalogs(filepath.Join(root, "po"), refs); missing > 0 {
			os.Exit(1)
		}

		return
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := os.WriteFile(*outPath, []byte(renderPOT(refs)), 0o644); err != nil {
		log.Fatalf("failed to write output file %s: %v", *outPath, err)
	}

	log.Printf("wrote %d messages to %s", len(refs), *outPath)
}

func sortedKeys(refs map[key][]ref) []key {
	keys := make([]key, 0, len(refs))
	for k := range refs {
		keys = append(keys, k)
	}

	slices.SortFunc(keys, func(a, b key) int {
		if c := strings.Compare(a.id, b.id); c != 0 {
			return c
		}

		return strings.Compare(a.plural, b.plural)
	})

	return keys
}

func renderPOT(refs map[key][]ref) string {
	var b strings.Builder

	writeHeader(&b)

	for i, k := range sortedKeys(refs) {
		rs := refs[k]
		slices.SortFunc(rs, func(a, b ref) int {
			if c := strings.Compare(a.file, b.file); c != 0 {
				return c
			}

			return a.line - b.line
		})

		b.WriteString("#:")

		for _, r := range slices.Compact(rs) {
			fmt.Fprintf(&b, " %s:%d", r.file, r.line)
		}

		b.WriteByte('\n')
		fmt.Fprintf(&b, "msgid %q\n", k.id)

		if k.plural != "" {
			fmt.Fprintf(&b, "msgid_plural %q\n", k.plural)
			b.WriteString("msgstr[0] \"\"\nmsgstr[1] \"\"\n")
		} else {
			b.WriteString("msgstr \"\"\n")
		}

		if i < len(refs)-1 {
			b.WriteByte('\n')
		}
	}

	return b.String()
}

// checkCatalogs prints the template msgids each catalog lacks and returns the total.
func checkCatalogs(dir string, refs map[key][]ref) int {
	files, err := filepath.Glob(filepath.Join(dir, "*.po"))
	if err != nil {
		log.Fatalf("failed to list catalogs: %v", err)
	}

	total := 0

	for _, file := range files {
		ids, err := catalogIDs(file)
		if err != nil {
			log.Fatalf("failed to read %s: %v", file, err)
		}

		for _, k := range sortedKeys(refs) {
			if _, ok := ids[k.id]; !ok {
				fmt.Printf("%s: missing %q\n", filepath.Base(file), k.id)
				total++
			}
		}
	}

	return total
}

// catalogIDs returns the single-line msgids of a .po file.
func catalogIDs(path string) (map[string]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ids := make(map[string]struct{})

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		quoted, ok := strings.CutPrefix(scanner.Text(), "msgid ")
		if !ok {
			continue
		}

		if id, err := strconv.Unquote(quoted); err == nil && id != "" {
			ids[id] = struct{}{}
		}
	}

	return ids, scanner.Err()
}

func extractRefs(pkgs []*packages.Package, root string, i18nPkgs map[string]struct{}) map[key][]ref {
	refs := map[key][]ref{}

	for _, p := range pkgs {
		if p.TypesInfo == nil {
			continue
		}

		e := &extractor{
			refs:     refs,
			root:     root,
			fset:     p.Fset,
			info:     p.TypesInfo,
			i18nPkgs: i18nPkgs,
		}

		for _, f := range p.Syntax {
			ast.Inspect(f, func(n ast.Node) bool {
				switch x := n.(type) {
				case *ast.CallExpr:
					e.handleCallExpr(x)
				case *ast.CompositeLit:
					e.handleCompositeLit(x)
				}

				return true
			})
		}
	}

	return refs
}

// findI18nPkgPaths returns the paths of packages named i18n that define a
// string-based MsgKey type, so matches do not depend on import aliases.
func findI18nPkgPaths(pkgs []*packages.Package) map[string]struct{} {
	out := make(map[string]struct{})

	for _, p := range pkgs {
		if p.Name != "i18n" || p.Types == nil {
			continue
		}

		tn, ok := p.Types.Scope().Lookup("MsgKey").(*types.TypeName)
		if !ok {
			continue
		}

		if basic, ok := tn.Type().Underlying().(*types.Basic); ok && basic.Kind() == types.String {
			out[p.PkgPath] = struct{}{}
		}
	}

	return out
}

// constString evaluates expr to a constant string, e.g. a literal, a const
// identifier or "a" + "b".
func constString(info *types.Info, expr ast.Expr) (string, bool) {
	tv, ok := info.Types[expr]
	if !ok || tv.Value == nil || tv.Value.Kind() != constant.String {
		return "", false
	}

	return constant.StringVal(tv.Value), true
}

func (e *extractor) isMsgKey(t types.Type) bool {
	named, ok := t.(*types.Named)
	if !ok || named.Obj().Pkg() == nil {
		return false
	}

	_, ok = e.i18nPkgs[named.Obj().Pkg().Path()]

	return ok && named.Obj().Name() == "MsgKey"
}

// addConst records expr if it is a constant string.
func (e *extractor) addConst(expr ast.Expr) {
	if msg, ok := constString(e.info, expr); ok {
		e.addRef(expr.Pos(), msg, "")
	}
}

func (e *extractor) handleCompositeLit(x *ast.CompositeLit) {
	tv, ok := e.info.Types[x]
	if !ok || tv.Type == nil {
		return
	}

	switch u := tv.Type.Underlying().(type) {
	case *types.Map:
		keyIsMK, valIsMK := e.isMsgKey(u.Key()), e.isMsgKey(u.Elem())

		for _, elt := range x.Elts {
			kv, ok := elt.(*ast.KeyValueExpr)
			if !ok {
				continue
			}

			if keyIsMK {
				e.addConst(kv.Key)
			}

			if valIsMK {
				e.addConst(kv.Value)
			}
		}

	case *types.Slice:
		if e.isMsgKey(u.Elem()) {
			for _, elt := range x.Elts {
				e.addConst(elt)
			}
		}

	case *types.Array:
		if e.isMsgKey(u.Elem()) {
			for _, elt := range x.Elts {
				e.addConst(elt)
			}
		}

	case *types.Struct:
		for i, elt := range x.Elts {
			if kv, ok := elt.(*ast.KeyValueExpr); ok {
				id, ok := kv.Key.(*ast.Ident)
				if !ok {
					continue
				}

				for j := range u.NumFields() {
					if f := u.Field(j); f.Name() == id.Name && e.isMsgKey(f.Type()) {
						e.addConst(kv.Value)
					}
				}

				continue
			}

			if i < u.NumFields() && e.isMsgKey(u.Field(i).Type()) {
				e.addConst(elt)
			}
		}
	}
}

func (e *extractor) handleCallExpr(x *ast.CallExpr) {
	// i18n.MsgKey("...")
	if tv, ok := e.info.Types[x.Fun]; ok && tv.IsType() {
		if len(x.Args) == 1 && e.isMsgKey(tv.Type) {
			e.addConst(x.Args[0])
		}

		return
	}

	if sel, ok := x.Fun.(*ast.SelectorExpr); ok {
		if fn, ok := e.info.Uses[sel.Sel].(*types.Func); ok && fn.Pkg() != nil {
			if _, ok := e.i18nPkgs[fn.Pkg().Path()]; ok {
				switch fn.Name() {
				case "Tr", "NewUserError":
					if len(x.Args) >= 2 {
						e.addConst(x.Args[1])
					}

					return
				case "TrN":
					if len(x.Args) >= 4 {
						singular, ok1 := constString(e.info, x.Args[1])
						plural, ok2 := constString(e.info, x.Args[2])

						if ok1 && ok2 {
							e.addRef(x.Args[1].Pos(), singular, plural)
						}
					}

					return
				}
			}
		}
	}

	// Any other call passing constants to MsgKey parameters.
	sig, ok := e.info.TypeOf(x.Fun).(*types.Signature)
	if !ok || sig.Params().Len() == 0 {
		return
	}

	params := sig.Params()
	last := params.Len() - 1

	for i, arg := range x.Args {
		var pt types.Type

		switch {
		case sig.Variadic() && i >= last:
			if x.Ellipsis != token.NoPos {
				continue
			}

			pt = params.At(last).Type().(*types.Slice).Elem()
		case i <= last:
			pt = params.At(i).Type()
		default:
			return
		}

		if e.isMsgKey(pt) {
			e.addConst(arg)
		}
	}
}

// addRef records msg with its position relative to the project root.
func (e *extractor) addRef(pos token.Pos, msg, plural string) {
	p := e.fset.Position(pos)

	file := p.Filename
	if rel, err := filepath.Rel(e.root, file); err == nil {
		file = rel
	}

	k := key{id: msg, plural: plural}
	e.refs[k] = append(e.refs[k], ref{file: filepath.ToSlash(file), line: p.Line})
}

func writeHeader(b *strings.Builder) {
	b.WriteString("# ChooseStockBroker translations.\n")
	b.WriteString("# Copyright 2025, the ChooseStockBroker contributors\n")
	b.WriteString("# This file is distributed under the same license as the ChooseStockBroker package.\n")
	b.WriteString("#\n")
	b.WriteString("msgid \"\"\nmsgstr \"\"\n")
	fmt.Fprintf(b, "\"Project-Id-Version: choosestockbroker %s\\n\"\n", detectVersion())
	fmt.Fprintf(b, "\"POT-Creation-Date: %s\\n\"\n", time.Now().UTC().Format("2006-01-02 15:04+0000"))
	b.WriteString("\"MIME-Version: 1.0\\n\"\n")
	b.WriteString("\"Content-Type: text/plain; charset=UTF-8\\n\"\n")
	b.WriteString("\"Content-Transfer-Encoding: 8bit\\n\"\n")
	b.WriteString("\"Plural-Forms: nplurals=INTEGER; plural=EXPRESSION;\\n\"\n\n")
}

// detectVersion returns git describe output, or "dev" outside a checkout.
func detectVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--always", "--dirty").Output()
	if err != nil {
		return "dev"
	}

	return strings.TrimSpace(string(out))
}

// findProjectRoot prefers the git toplevel, then the nearest directory with a go.mod.
func findProjectRoot(wd string) string {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = wd

	if out, err := cmd.Output(); err == nil {
		if root := strings.TrimSpace(string(out)); root != "" {
			return filepath.Clean(root)
		}
	}

	for dir := filepath.Clean(wd); ; dir = filepath.Dir(dir) {
		if fi, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil && !fi.IsDir() {
			return dir
		}

		if filepath.Dir(dir) == dir {
			return wd
		}
	}
}
