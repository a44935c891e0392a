package extract

// harvestJS collects visible, enabled interactive elements from the
// page's primary content region and any open overlay regions.
//
// The primary region prefers an explicit main-content landmark, falling
// back to the largest, most centered non-chrome child of body. Chrome
// (header, nav, footer, banner and navigation landmarks, fixed or sticky
// bars under a height threshold) stays outside the primary region so
// discovery biases toward main content; open dialogs and menus count as
// regions of their own wherever they live in the tree. Controls carrying
// disabled or aria-disabled are skipped.
//
// The returned objects mirror the model.Action shape: type, label, href,
// selector, and sibling option labels. Visibility requires a non-zero
// bounding rect plus computed style checks; offsetParent alone misses
// position:fixed elements.
//
// Label preference order: aria-label, title, placeholder, alt text of a
// sole image child, trimmed visible text. Selector synthesis prefers a
// unique id, then tag plus up to two stable classes, then an nth-child
// path one level up.
const harvestJS = `() => {
	const MAX_LABEL = 120;
	const CHROME_BAR_MAX = 160;

	function visible(el) {
		const r = el.getBoundingClientRect();
		if (r.width === 0 || r.height === 0) return false;
		const s = window.getComputedStyle(el);
		if (s.display === 'none' || s.visibility === 'hidden') return false;
		if (parseFloat(s.opacity || '1') < 0.05) return false;
		return true;
	}

	function enabled(el) {
		if (el.disabled) return false;
		if (el.getAttribute('aria-disabled') === 'true') return false;
		if (el.closest('[aria-disabled="true"], fieldset[disabled]')) return false;
		return true;
	}

	function chromeLike(el) {
		if (el.closest('header, nav, footer, [role="banner"], [role="navigation"], [role="contentinfo"]')) {
			return true;
		}
		for (let anc = el; anc && anc !== document.body; anc = anc.parentElement) {
			const s = window.getComputedStyle(anc);
			if ((s.position === 'fixed' || s.position === 'sticky') &&
				anc.getBoundingClientRect().height < CHROME_BAR_MAX) {
				return true;
			}
		}
		return false;
	}

	// Open overlays: dialogs, popup menus, and revealed submenu lists.
	const overlays = [];
	document.querySelectorAll('[role="dialog"], dialog[open], [aria-modal="true"], [role="menu"], [role="listbox"], nav li ul, header li ul').forEach(el => {
		if (visible(el)) overlays.push(el);
	});

	function primaryRegion() {
		const landmark = document.querySelector('main, [role="main"], #main, #content');
		if (landmark && visible(landmark)) return landmark;
		let best = null;
		let bestScore = -Infinity;
		Array.from(document.body.children).forEach(el => {
			if (!visible(el) || chromeLike(el)) return;
			const r = el.getBoundingClientRect();
			const offCenter = Math.abs((r.left + r.right) / 2 - window.innerWidth / 2);
			const score = r.width * r.height - offCenter * 100;
			if (score > bestScore) { bestScore = score; best = el; }
		});
		return best || document.body;
	}

	const region = primaryRegion();

	function inScope(el) {
		for (const o of overlays) {
			if (o.contains(el)) return true;
		}
		return region.contains(el) && !chromeLike(el);
	}

	function labelOf(el) {
		const aria = el.getAttribute('aria-label');
		if (aria && aria.trim()) return aria.trim();
		const title = el.getAttribute('title');
		if (title && title.trim()) return title.trim();
		const ph = el.getAttribute('placeholder');
		if (ph && ph.trim()) return ph.trim();
		const img = el.querySelector('img[alt]');
		if (img && el.textContent.trim() === '' && img.getAttribute('alt').trim()) {
			return img.getAttribute('alt').trim();
		}
		const text = (el.textContent || el.value || '').trim();
		return text.slice(0, MAX_LABEL);
	}

	function validClass(c) {
		return /^[A-Za-z_][A-Za-z0-9_-]*$/.test(c);
	}

	function selectorOf(el) {
		if (el.id && /^[A-Za-z][\w-]*$/.test(el.id)) {
			return '#' + el.id;
		}
		const tag = el.tagName.toLowerCase();
		const classes = Array.from(el.classList).filter(validClass).slice(0, 2);
		if (classes.length > 0) {
			const sel = tag + '.' + classes.join('.');
			try {
				if (document.querySelectorAll(sel).length === 1) return sel;
			} catch (e) {}
		}
		const parent = el.parentElement;
		if (parent) {
			const index = Array.from(parent.children).indexOf(el) + 1;
			const ptag = parent.tagName.toLowerCase();
			const pid = parent.id && /^[A-Za-z][\w-]*$/.test(parent.id) ? '#' + parent.id : ptag;
			return pid + ' > ' + tag + ':nth-child(' + index + ')';
		}
		return tag;
	}

	function optionsOf(el) {
		const container = el.closest('ul, ol, nav, [role="menu"], [role="listbox"], [role="tablist"]');
		if (!container) return [];
		const out = [];
		container.querySelectorAll('a[href], button, [role="button"], [role="menuitem"], [role="tab"]').forEach(sib => {
			if (sib === el || !visible(sib)) return;
			const l = labelOf(sib);
			if (l && out.length < 20 && !out.includes(l)) out.push(l);
		});
		return out;
	}

	const results = [];
	const taken = new Set();

	function add(el, type, href) {
		if (taken.has(el) || !visible(el) || !enabled(el) || !inScope(el)) return;
		taken.add(el);
		results.push({
			type: type,
			label: labelOf(el),
			href: href || '',
			selector: selectorOf(el),
			options: optionsOf(el),
		});
	}

	// Toggles first so a button that is also a disclosure classifies as
	// a toggle, not a plain click.
	document.querySelectorAll('[aria-haspopup], [aria-expanded], summary, [role="combobox"], select').forEach(el => {
		add(el, 'toggle', '');
	});

	document.querySelectorAll('a[href]').forEach(el => {
		const href = el.getAttribute('href') || '';
		if (href.startsWith('javascript:')) {
			add(el, 'click', '');
			return;
		}
		add(el, 'navigate', href);
	});

	document.querySelectorAll('button, [role="button"], input[type="submit"], input[type="button"], [role="menuitem"], [role="tab"]').forEach(el => {
		add(el, 'click', '');
	});

	return results;
}`

// disclosureJS returns selectors of visible elements likely to reveal
// hidden content on hover: popup owners, collapsed disclosures, and nav
// list items with nested lists.
const disclosureJS = `() => {
	function visible(el) {
		const r = el.getBoundingClientRect();
		if (r.width === 0 || r.height === 0) return false;
		const s = window.getComputedStyle(el);
		return s.display !== 'none' && s.visibility !== 'hidden';
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

	const out = [];
	const seen = new Set();

	document.querySelectorAll('[aria-haspopup="true"], [aria-haspopup="menu"], [aria-expanded="false"], nav li > a, header li > a').forEach(el => {
		if (!visible(el) || seen.has(el)) return;
		// nav items only count when they actually nest a submenu.
		if (el.matches('nav li > a, header li > a')) {
			const li = el.parentElement;
			if (!li.querySelector('ul, ol, [role="menu"]')) return;
		}
		seen.add(el);
		if (out.length < 30) out.push(selectorOf(el));
	});

	return out;
}`
