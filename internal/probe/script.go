package probe

// installObserverJS installs a page-global mutation counter. Idempotent;
// re-running only resets the count. The prober polls the counter to decide
// when an interaction has settled.
const installObserverJS = `() => {
	if (window.__uiatlasMut) {
		window.__uiatlasMut.count = 0;
		return;
	}
	window.__uiatlasMut = { count: 0 };
	const obs = new MutationObserver(muts => {
		window.__uiatlasMut.count += muts.length;
	});
	obs.observe(document.documentElement, {
		childList: true,
		subtree: true,
		attributes: true,
	});
}`

// mutationCountJS reads the counter installed by installObserverJS.
const mutationCountJS = `() => window.__uiatlasMut ? window.__uiatlasMut.count : 0`

// snapshotJS collects the visible labels and typed actions in the scope
// of a trigger.
//
// Scope resolution, in order: an open dialog (post-interaction state wins
// over everything), the element named by the trigger's aria-controls, the
// tabpanel for a tab trigger, the nearest menu-like ancestor, then up to
// three plain ancestors. A page-wide diff would drown real deltas in
// unrelated churn (carousels, clocks, ad rotators), so the scope is kept
// as tight as possible.
//
// Labels feed the before/after diff; actions describe what the scope
// offers after an interaction (list items name options, not actions, so
// they contribute labels only).
const snapshotJS = `(sel) => {
	function visible(el) {
		const r = el.getBoundingClientRect();
		if (r.width === 0 || r.height === 0) return false;
		const s = window.getComputedStyle(el);
		return s.display !== 'none' && s.visibility !== 'hidden' && parseFloat(s.opacity || '1') > 0.05;
	}

	function labelOf(el) {
		const aria = el.getAttribute('aria-label');
		if (aria && aria.trim()) return aria.trim();
		return (el.textContent || el.value || '').trim().slice(0, 120);
	}

	function selectorOf(el) {
		if (el.id && /^[A-Za-z][\w-]*$/.test(el.id)) return '#' + el.id;
		const tag = el.tagName.toLowerCase();
		const parent = el.parentElement;
		if (parent) {
			const index = Array.from(parent.children).indexOf(el) + 1;
			const ptag = parent.tagName.toLowerCase();
			const pid = parent.id && /^[A-Za-z][\w-]*$/.test(parent.id) ? '#' + parent.id : ptag;
			return pid + ' > ' + tag + ':nth-child(' + index + ')';
		}
		return tag;
	}

	function scopeOf() {
		const dialog = document.querySelector('[role="dialog"], [aria-modal="true"], dialog[open]');
		if (dialog && visible(dialog)) return dialog;

		const trigger = sel ? document.querySelector(sel) : null;
		if (trigger) {
			const controls = trigger.getAttribute('aria-controls');
			if (controls) {
				const target = document.getElementById(controls);
				if (target) return target;
			}
			if (trigger.getAttribute('role') === 'tab') {
				const panel = document.querySelector('[role="tabpanel"]');
				if (panel) return panel;
			}
			const menu = trigger.closest('nav, [role="menu"], [role="menubar"], ul, ol');
			if (menu) return menu;

			let anc = trigger.parentElement;
			for (let i = 0; anc && i < 3; i++) {
				if (anc.tagName === 'BODY') break;
				anc = anc.parentElement;
			}
			if (anc) return anc;
		}
		return document.body;
	}

	const scope = scopeOf();
	if (!scope) return { labels: [], actions: [] };

	const labels = [];
	const actions = [];
	const seen = new Set();
	scope.querySelectorAll('a[href], button, [role="button"], [role="menuitem"], [role="tab"], [role="option"], li, summary').forEach(el => {
		if (!visible(el)) return;
		const l = labelOf(el);
		if (!l || seen.has(l)) return;
		seen.add(l);
		labels.push(l);
		if (el.tagName === 'LI') return;
		const href = el.getAttribute('href') || '';
		let type = 'click';
		if (el.matches('[aria-haspopup], [aria-expanded], summary')) {
			type = 'toggle';
		} else if (href && !href.startsWith('javascript:')) {
			type = 'navigate';
		}
		actions.push({ type: type, label: l, href: href, selector: selectorOf(el) });
	});
	return { labels: labels, actions: actions };
}`

// dialogPresentJS reports whether an open, visible dialog exists. The
// settle wait resolves as soon as one appears; modal content rarely
// keeps mutating once shown.
const dialogPresentJS = `() => {
	const d = document.querySelector('[role="dialog"], [aria-modal="true"], dialog[open]');
	return !!(d && d.getBoundingClientRect().height > 0);
}`
